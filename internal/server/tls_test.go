package server

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"testing"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	certPEM, keyPEM, err := GenerateSelfSignedCert("thing.local", "192.168.1.50")
	if err != nil {
		t.Fatalf("GenerateSelfSignedCert() error: %v", err)
	}

	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		t.Fatalf("generated pair does not load: %v", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		t.Fatal("certificate PEM does not decode")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("ParseCertificate() error: %v", err)
	}

	if cert.IsCA {
		t.Error("certificate marked as CA")
	}
	if !containsString(cert.DNSNames, "localhost") {
		t.Errorf("DNSNames = %v, want localhost included", cert.DNSNames)
	}
	if !containsString(cert.DNSNames, "thing.local") {
		t.Errorf("DNSNames = %v, want thing.local included", cert.DNSNames)
	}

	foundIP := false
	for _, ip := range cert.IPAddresses {
		if ip.String() == "192.168.1.50" {
			foundIP = true
		}
	}
	if !foundIP {
		t.Errorf("IPAddresses = %v, want 192.168.1.50 included", cert.IPAddresses)
	}

	wantUsage := x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
	if cert.KeyUsage&wantUsage != wantUsage {
		t.Errorf("KeyUsage = %v, want digitalSignature and keyEncipherment", cert.KeyUsage)
	}
}

func TestSelfSignedTLSConfig(t *testing.T) {
	config, err := SelfSignedTLSConfig("demo.local")
	if err != nil {
		t.Fatalf("SelfSignedTLSConfig() error: %v", err)
	}

	if len(config.Certificates) != 1 {
		t.Errorf("len(Certificates) = %d, want 1", len(config.Certificates))
	}
	if config.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want %x", config.MinVersion, tls.VersionTLS12)
	}
}

func TestGetTLSInfo(t *testing.T) {
	config, err := SelfSignedTLSConfig()
	if err != nil {
		t.Fatalf("SelfSignedTLSConfig() error: %v", err)
	}

	info := GetTLSInfo(config)
	if info["min_version"] != "TLS 1.2" {
		t.Errorf("min_version = %v, want TLS 1.2", info["min_version"])
	}
	if info["num_certs"] != 1 {
		t.Errorf("num_certs = %v, want 1", info["num_certs"])
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

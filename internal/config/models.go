package config

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/wotscout/wotscout/internal/discovery"
)

// Registry represents the entire user configuration file.
// This stores named discovery targets and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Targets     map[string]*Target `yaml:"targets,omitempty"` // Keyed by a user-chosen name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Target represents a saved discovery target: where to look and how.
type Target struct {
	URL          string    `yaml:"url"`                     // Thing or directory URL
	Method       string    `yaml:"method,omitempty"`        // "direct" or "core-link-format"
	ResourceType string    `yaml:"resource_type,omitempty"` // rt filter for directory lookups
	LastUsed     time.Time `yaml:"last_used,omitempty"`     // Last discovery run against this target
	LastTitle    string    `yaml:"last_title,omitempty"`    // Title of the last Thing found here
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoIntroduce bool   `yaml:"auto_introduce"` // Browse mDNS for Things on startup
	ScanTimeout   int    `yaml:"scan_timeout"`   // mDNS browse timeout in seconds
	DefaultMethod string `yaml:"default_method"` // Discovery method when a target names none
	ResourceType  string `yaml:"resource_type"`  // Default rt filter for directory lookups
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Targets: make(map[string]*Target),
		Preferences: &Preferences{
			AutoIntroduce: true,
			ScanTimeout:   10,
			DefaultMethod: "direct",
			ResourceType:  discovery.DefaultResourceType,
		},
	}
}

// GetTarget retrieves a saved target by name.
// Returns nil if the target doesn't exist in the registry.
func (r *Registry) GetTarget(name string) *Target {
	return r.Targets[name]
}

// EnsureTarget ensures a target entry exists in the registry.
// If the target doesn't exist, creates a new entry with default values.
// Returns the target entry (existing or newly created).
func (r *Registry) EnsureTarget(name string) *Target {
	if r.Targets == nil {
		r.Targets = make(map[string]*Target)
	}

	if target, exists := r.Targets[name]; exists {
		return target
	}

	target := &Target{}
	r.Targets[name] = target
	return target
}

// SetTarget saves or replaces a named target.
func (r *Registry) SetTarget(name, rawURL, method, resourceType string) {
	target := r.EnsureTarget(name)
	target.URL = rawURL
	target.Method = method
	target.ResourceType = resourceType
}

// UpdateTargetUsed records a discovery run against a saved target.
func (r *Registry) UpdateTargetUsed(name, lastTitle string) {
	target := r.EnsureTarget(name)
	target.LastUsed = time.Now()
	if lastTitle != "" {
		target.LastTitle = lastTitle
	}
}

// RemoveTarget deletes a saved target. Removing an unknown name is a
// no-op.
func (r *Registry) RemoveTarget(name string) {
	delete(r.Targets, name)
}

// TargetNames returns the saved target names in sorted order.
func (r *Registry) TargetNames() []string {
	names := make([]string, 0, len(r.Targets))
	for name := range r.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter converts a saved target into a discovery filter, filling
// gaps from the given preferences.
func (t *Target) Filter(prefs *Preferences) (discovery.ThingFilter, error) {
	if t.URL == "" {
		return discovery.ThingFilter{}, fmt.Errorf("target has no URL")
	}
	parsed, err := url.Parse(t.URL)
	if err != nil {
		return discovery.ThingFilter{}, fmt.Errorf("target URL %q: %w", t.URL, err)
	}

	methodName := t.Method
	if methodName == "" && prefs != nil {
		methodName = prefs.DefaultMethod
	}
	if methodName == "" {
		methodName = "direct"
	}
	method, err := discovery.ParseMethod(methodName)
	if err != nil {
		return discovery.ThingFilter{}, err
	}

	resourceType := t.ResourceType
	if resourceType == "" && prefs != nil {
		resourceType = prefs.ResourceType
	}

	return discovery.ThingFilter{
		URL:          parsed,
		Method:       method,
		ResourceType: resourceType,
	}, nil
}

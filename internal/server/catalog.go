package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wotscout/wotscout/internal/corelink"
	"github.com/wotscout/wotscout/internal/td"
)

const (
	// ThingMediaType is the media type Thing Descriptions are served as
	ThingMediaType = "application/td+json"

	// LinkFormatMediaType is the media type of the discovery document
	LinkFormatMediaType = "application/link-format"

	// ThingResourceType is the rt each hosted description is registered
	// under in the discovery document
	ThingResourceType = "wot.thing"

	// thingContentFormat is the CoAP content-format number for
	// application/td+json, carried as the ct link attribute
	thingContentFormat = "432"
)

// Catalog holds the Thing Descriptions a server hosts, keyed by name.
// Every description is validated when it is added, so the catalog only
// ever serves well-formed payloads.
type Catalog struct {
	mu     sync.RWMutex
	things map[string]hostedThing
}

type hostedThing struct {
	description *td.ThingDescription
	payload     []byte
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		things: make(map[string]hostedThing),
	}
}

// Add validates a Thing Description payload and registers it under the
// given name. Adding a name twice replaces the earlier description.
func (c *Catalog) Add(name string, payload []byte) error {
	if name == "" {
		return fmt.Errorf("thing name must not be empty")
	}

	description, err := td.Parse(payload)
	if err != nil {
		return fmt.Errorf("thing description %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.things[name] = hostedThing{description: description, payload: payload}
	return nil
}

// LoadDir adds every .json file in a directory; the file's base name
// (without extension) becomes the thing name.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read thing directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		if err := c.Add(name, payload); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the raw payload registered under a name
func (c *Catalog) Get(name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hosted, ok := c.things[name]
	if !ok {
		return nil, false
	}
	return hosted.payload, true
}

// Description returns the parsed description registered under a name
func (c *Catalog) Description(name string) (*td.ThingDescription, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hosted, ok := c.things[name]
	if !ok {
		return nil, false
	}
	return hosted.description, true
}

// Names returns the registered names in sorted order
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.things))
	for name := range c.things {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of hosted descriptions
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.things)
}

// Links builds the discovery document: one link per hosted description
// pointing at its /things/ resource, tagged with the thing resource
// type and content format.
func (c *Catalog) Links() []corelink.Link {
	names := c.Names()
	links := make([]corelink.Link, 0, len(names))
	for _, name := range names {
		links = append(links, corelink.Link{
			Target: "/things/" + name,
			Attrs: map[string]string{
				"rt": ThingResourceType,
				"ct": thingContentFormat,
			},
		})
	}
	return links
}

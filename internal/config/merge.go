package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overlaySections maps each top-level YAML key to a function that decodes
// the key's node into a fresh value and stores it on the target, replacing
// the whole section.
//
//nolint:gochecknoglobals // Lookup table.
var overlaySections = map[string]func(c *Config, n *yaml.Node) error{
	"version": func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.Version) },
	"api":     func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.API) },
	"display": func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.Display) },
	"output":  func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.Output) },
	"cache":   func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.Cache) },
	"logging": func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.Logging) },
	"metrics": func(c *Config, n *yaml.Node) error { return replaceSection(n, &c.Metrics) },
}

// replaceSection decodes n into a zero T before assigning it, since
// decoding in place would merge into the existing section.
func replaceSection[T any](n *yaml.Node, dst *T) error {
	var fresh T
	if err := n.Decode(&fresh); err != nil {
		return err
	}
	*dst = fresh
	return nil
}

// ShallowMergeYAML applies the YAML file at overlayPath to target. Every
// top-level key present in the overlay replaces that section of target
// wholesale; absent and unknown keys leave target unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var doc yaml.Node
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}
	// Empty or comment-only file.
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing overlay YAML from %s: top level must be a mapping", overlayPath)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		apply, ok := overlaySections[key]
		if !ok {
			continue
		}
		if err = apply(target, value); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"autonav-go/pkg/errors"
)

// Config provides access to a parsed configuration file. Sections keep the
// order they appear in, and option reads are tracked so a caller can reject
// files with unknown leftovers.
type Config struct {
	mu       sync.RWMutex
	sections map[string]*Section
	order    []string

	accessedSections map[string]struct{}
}

// New creates a new empty Config.
func New() *Config {
	return &Config{
		sections:         make(map[string]*Section),
		accessedSections: make(map[string]struct{}),
	}
}

// Load reads a configuration file. [include path] directives pull in other
// files relative to the including file; globs are allowed.
func Load(path string) (*Config, error) {
	c := New()
	visited := make(map[string]bool)
	if err := c.parseFile(path, visited); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadString parses a configuration from a string. Include directives are
// not supported without a base directory.
func LoadString(data string) (*Config, error) {
	c := New()
	if err := c.parseLines(strings.Split(data, "\n"), "", nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parseFile(path string, visited map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValidation, fmt.Sprintf("invalid path %s", path))
	}

	if visited[abs] {
		return errors.New(errors.ErrConfigValidation, fmt.Sprintf("recursive include: %s", path))
	}
	visited[abs] = true
	defer func() { visited[abs] = false }()

	f, err := os.Open(abs)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValidation, fmt.Sprintf("unable to open %s", path))
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValidation, fmt.Sprintf("error reading %s", path))
	}

	return c.parseLines(lines, filepath.Dir(abs), visited)
}

// parseLines parses config lines. dir is the base for include directives;
// an empty dir disables includes.
func (c *Config) parseLines(lines []string, dir string, visited map[string]bool) error {
	var currentSection string
	var currentOptions map[string]string

	for lineNum, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if idx := strings.IndexAny(line, "#;"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if currentSection != "" {
				c.addSection(currentSection, currentOptions)
			}

			header := strings.TrimSpace(line[1 : len(line)-1])
			if header == "" {
				return errors.New(errors.ErrConfigValidation,
					fmt.Sprintf("empty section header at line %d", lineNum+1))
			}

			if strings.HasPrefix(header, "include ") {
				if dir == "" {
					return errors.New(errors.ErrConfigValidation,
						fmt.Sprintf("include not allowed at line %d", lineNum+1))
				}
				pattern := strings.TrimSpace(header[len("include "):])
				if pattern == "" {
					return errors.New(errors.ErrConfigValidation,
						fmt.Sprintf("empty include at line %d", lineNum+1))
				}
				glob := filepath.Join(dir, pattern)
				matches, err := filepath.Glob(glob)
				if err != nil {
					return errors.Wrap(err, errors.ErrConfigValidation,
						fmt.Sprintf("invalid include pattern %q", pattern))
				}
				sort.Strings(matches)
				if len(matches) == 0 && !strings.ContainsAny(glob, "*?[") {
					return errors.New(errors.ErrConfigValidation,
						fmt.Sprintf("include file does not exist: %s", glob))
				}
				for _, m := range matches {
					if err := c.parseFile(m, visited); err != nil {
						return err
					}
				}
				currentSection = ""
				currentOptions = nil
				continue
			}

			currentSection = header
			currentOptions = make(map[string]string)
			continue
		}

		// options before the first section header are ignored
		if currentSection == "" {
			continue
		}

		// key: value or key = value
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			kv = strings.SplitN(line, "=", 2)
		}
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}
		currentOptions[key] = strings.TrimSpace(kv[1])
	}

	if currentSection != "" {
		c.addSection(currentSection, currentOptions)
	}
	return nil
}

// addSection adds a section, merging options into an existing section of
// the same name.
func (c *Config) addSection(name string, options map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.sections[name]; ok {
		for k, v := range options {
			existing.options[strings.ToLower(k)] = v
		}
		return
	}
	c.sections[name] = newSection(name, options)
	c.order = append(c.order, name)
}

// GetSection returns a Section by name, or an error if not found.
func (c *Config) GetSection(name string) (*Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sec, ok := c.sections[name]
	if !ok {
		return nil, ErrMissingSection(name)
	}
	c.accessedSections[name] = struct{}{}
	return sec, nil
}

// GetSectionOptional returns a Section if it exists, or nil.
func (c *Config) GetSectionOptional(name string) *Section {
	c.mu.Lock()
	defer c.mu.Unlock()

	sec, ok := c.sections[name]
	if ok {
		c.accessedSections[name] = struct{}{}
	}
	return sec
}

// HasSection checks if a section exists.
func (c *Config) HasSection(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.sections[name]
	return ok
}

// GetSectionNames returns all section names in file order.
func (c *Config) GetSectionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, len(c.order))
	copy(result, c.order)
	return result
}

// GetPrefixSections returns, in file order, all sections whose name starts
// with the given prefix.
func (c *Config) GetPrefixSections(prefix string) []*Section {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []*Section
	for _, name := range c.order {
		if strings.HasPrefix(name, prefix) {
			c.accessedSections[name] = struct{}{}
			result = append(result, c.sections[name])
		}
	}
	return result
}

// GetUnusedSections returns the sections that were never accessed.
func (c *Config) GetUnusedSections() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []string
	for name := range c.sections {
		if _, ok := c.accessedSections[name]; !ok {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

// CheckUnused returns an error if any section or option was never read.
// Called after setup so typos in a mission file fail loudly instead of
// silently doing nothing.
func (c *Config) CheckUnused() error {
	if unused := c.GetUnusedSections(); len(unused) > 0 {
		return errors.New(errors.ErrConfigValidation, fmt.Sprintf("unused sections: %v", unused))
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var faults []string
	for name, sec := range c.sections {
		if unused := sec.GetUnusedOptions(); len(unused) > 0 {
			sort.Strings(unused)
			faults = append(faults, fmt.Sprintf("[%s]: unused options %v", name, unused))
		}
	}
	if len(faults) > 0 {
		sort.Strings(faults)
		return errors.New(errors.ErrConfigValidation, strings.Join(faults, "; "))
	}
	return nil
}

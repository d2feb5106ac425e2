package docker_compose

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"jasper-launcher/pkg/template"
	"jasper-launcher/pkg/yaml"
)

// Project is the part of a compose file the launcher cares about.
type Project struct {
	Name     string             `yaml:"name"`
	Services map[string]Service `yaml:"services"`
}

// Service is a single compose service definition.
type Service struct {
	Image    string   `yaml:"image"`
	Profiles []string `yaml:"profiles"`
}

// LoadProject reads and parses a compose file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file %s: %w", path, err)
	}
	project, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("invalid compose file %s: %w", path, err)
	}
	return project, nil
}

// ParseProject parses compose YAML. A project without services is rejected.
func ParseProject(data []byte) (*Project, error) {
	var project Project
	if err := yaml.UnmarshalYAML(data, &project); err != nil {
		return nil, err
	}
	if len(project.Services) == 0 {
		return nil, fmt.Errorf("no services defined")
	}
	return &project, nil
}

// ServiceNames returns the service names in lexical order.
func (p *Project) ServiceNames() []string {
	names := make([]string, 0, len(p.Services))
	for name := range p.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns every profile declared by a service, sorted and deduplicated.
func (p *Project) Profiles() []string {
	seen := make(map[string]struct{})
	for _, svc := range p.Services {
		for _, profile := range svc.Profiles {
			seen[profile] = struct{}{}
		}
	}
	profiles := make([]string, 0, len(seen))
	for profile := range seen {
		profiles = append(profiles, profile)
	}
	sort.Strings(profiles)
	return profiles
}

// MissingProfiles returns the entries of profiles no service declares.
func (p *Project) MissingProfiles(profiles []string) []string {
	declared := make(map[string]struct{})
	for _, profile := range p.Profiles() {
		declared[profile] = struct{}{}
	}
	var missing []string
	for _, profile := range profiles {
		if _, ok := declared[profile]; !ok {
			missing = append(missing, profile)
		}
	}
	return missing
}

// ImageRepository returns the image repository of service without its tag.
// Tags given through variable interpolation are stripped as well.
func (p *Project) ImageRepository(service string) string {
	svc, ok := p.Services[service]
	if !ok || svc.Image == "" {
		return ""
	}
	image := svc.Image
	if i := strings.Index(image, "${"); i >= 0 {
		return strings.TrimSuffix(image[:i], ":")
	}
	repository, _ := SplitImageRef(image)
	return repository
}

// Images resolves the image of every service with compose interpolation rules,
// reading variables from lookup.
func (p *Project) Images(lookup template.Lookup) (map[string]string, error) {
	images := make(map[string]string, len(p.Services))
	for name, svc := range p.Services {
		image, err := template.Substitute(svc.Image, lookup)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", name, err)
		}
		images[name] = image
	}
	return images, nil
}

package valueobjects

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	pkgerrors "connecting-party-manager/pkg/errors"
)

// TagComponent is one named value of a DeviceTag
type TagComponent struct {
	Name  string
	Value string
}

// DeviceTag is the canonical form of a set of tag components: lower-cased, sorted by name then value
// and query-encoded ("name=value&name=value"). Equal component sets always give equal tags.
type DeviceTag string

// NewDeviceTag canonicalises the given components
func NewDeviceTag(components ...TagComponent) (DeviceTag, error) {
	if len(components) == 0 {
		return "", pkgerrors.NewValidationError("a tag requires at least one component")
	}
	canonical := make([]TagComponent, 0, len(components))
	for _, c := range components {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return "", pkgerrors.NewValidationError("tag component names must not be empty")
		}
		canonical = append(canonical, TagComponent{Name: name, Value: strings.ToLower(c.Value)})
	}
	slices.SortFunc(canonical, func(a, b TagComponent) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	canonical = slices.Compact(canonical)

	parts := make([]string, len(canonical))
	for i, c := range canonical {
		parts[i] = url.QueryEscape(c.Name) + "=" + url.QueryEscape(c.Value)
	}
	return DeviceTag(strings.Join(parts, "&")), nil
}

// DeviceTagFromMap canonicalises a name to value mapping
func DeviceTagFromMap(components map[string]string) (DeviceTag, error) {
	list := make([]TagComponent, 0, len(components))
	for name, value := range components {
		list = append(list, TagComponent{Name: name, Value: value})
	}
	return NewDeviceTag(list...)
}

// Components decodes the canonical form back into its sorted components
func (t DeviceTag) Components() []TagComponent {
	if t == "" {
		return nil
	}
	pairs := strings.Split(string(t), "&")
	out := make([]TagComponent, 0, len(pairs))
	for _, pair := range pairs {
		name, value, _ := strings.Cut(pair, "=")
		name, _ = url.QueryUnescape(name)
		value, _ = url.QueryUnescape(value)
		out = append(out, TagComponent{Name: name, Value: value})
	}
	return out
}

// String returns the canonical value
func (t DeviceTag) String() string {
	return string(t)
}

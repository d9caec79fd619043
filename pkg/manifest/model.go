// Package manifest models the DATA_FETCH resource manifest and reads and
// writes it as XML.
package manifest

import "slices"

// Element and attribute names of the manifest document.
const (
	ElementRoot       = "DATA_FETCH"
	ElementItem       = "DATA_ITEM"
	ElementResource   = "RESOURCE"
	ElementProperties = "PROPERTIES"
	ElementProperty   = "PROPERTY"
	AttrTenant        = "tenant"
	AttrName          = "name"
	AttrValue         = "value"
)

// Property is a name/value pair attached to a manifest item.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// NewProperty builds a Property.
func NewProperty(name, value string) Property {
	return Property{Name: name, Value: value}
}

// DefaultProperties returns the property list given to newly discovered
// resources. Each call returns a fresh slice.
func DefaultProperties() []Property {
	return []Property{
		NewProperty("isValid", "true"),
		NewProperty("consume", "false"),
	}
}

// DataItem is one resource entry of the manifest.
type DataItem struct {
	Resource   string     `json:"resource" yaml:"resource"`
	Properties []Property `json:"properties" yaml:"properties"`
	Tenant     string     `json:"tenant" yaml:"tenant"`
}

// NewDataItem builds a DataItem. The property slice is copied.
func NewDataItem(resource, tenant string, properties []Property) DataItem {
	return DataItem{
		Resource:   resource,
		Properties: slices.Clone(properties),
		Tenant:     tenant,
	}
}

// Clone returns a deep copy of the item.
func (d DataItem) Clone() DataItem {
	return NewDataItem(d.Resource, d.Tenant, d.Properties)
}

// Equal reports structural equality, including property order.
func (d DataItem) Equal(other DataItem) bool {
	return d.Resource == other.Resource &&
		d.Tenant == other.Tenant &&
		slices.Equal(d.Properties, other.Properties)
}

// DataFetch is the manifest document: an ordered list of items.
type DataFetch struct {
	Items []DataItem `json:"items" yaml:"items"`
}

// WithItems returns a new document holding items. The receiver is left
// untouched and the returned document does not share its backing array.
func (d *DataFetch) WithItems(items []DataItem) *DataFetch {
	out := make([]DataItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return &DataFetch{Items: out}
}

// Len returns the number of items, tolerating a nil document.
func (d *DataFetch) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Items)
}

// Equal reports whether both documents hold structurally equal items in the
// same order.
func (d *DataFetch) Equal(other *DataFetch) bool {
	if d.Len() != other.Len() {
		return false
	}
	for i := range d.Len() {
		if !d.Items[i].Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// Package merge appends newly discovered resources to a manifest.
package merge

import (
	"github.com/fulmenhq/dfrecon/pkg/manifest"
	"github.com/fulmenhq/dfrecon/pkg/reconcile"
)

// Item synthesizes the manifest item for a discovered entry, carrying the
// default property list.
func Item(e reconcile.Entry) manifest.DataItem {
	return manifest.NewDataItem(e.Name, e.Tenant, manifest.DefaultProperties())
}

// Merge returns a new manifest holding the items of doc, in their original
// order, followed by one synthesized item per entry of toAdd. doc is not
// modified and no item is ever dropped.
func Merge(doc *manifest.DataFetch, toAdd []reconcile.Entry) *manifest.DataFetch {
	items := make([]manifest.DataItem, 0, doc.Len()+len(toAdd))
	if doc != nil {
		items = append(items, doc.Items...)
	}
	for _, e := range toAdd {
		items = append(items, Item(e))
	}
	return doc.WithItems(items)
}

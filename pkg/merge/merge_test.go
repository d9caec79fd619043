package merge

import (
	"testing"

	"github.com/fulmenhq/dfrecon/pkg/classify"
	"github.com/fulmenhq/dfrecon/pkg/manifest"
	"github.com/fulmenhq/dfrecon/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_AppendsAfterExisting(t *testing.T) {
	existing := manifest.NewDataItem("tenantA/securitykey/k1", "tenantA",
		[]manifest.Property{manifest.NewProperty("isValid", "false"), manifest.NewProperty("owner", "ops")})
	doc := &manifest.DataFetch{Items: []manifest.DataItem{existing}}

	toAdd := []reconcile.Entry{
		{Name: "tenantB/otherkey/k2", Type: "otherkey", Tenant: "tenantB"},
		{Name: "tenantC/securitykey/k3", Type: "securitykey", Tenant: "tenantC"},
	}

	got := Merge(doc, toAdd)
	require.Equal(t, 3, got.Len())
	assert.True(t, got.Items[0].Equal(existing), "existing item must be kept as is")

	assert.Equal(t, "tenantB/otherkey/k2", got.Items[1].Resource)
	assert.Equal(t, "tenantB", got.Items[1].Tenant)
	assert.Equal(t, "tenantC/securitykey/k3", got.Items[2].Resource)
	assert.Equal(t, "tenantC", got.Items[2].Tenant)

	for _, item := range got.Items[1:] {
		assert.Equal(t, []manifest.Property{
			{Name: "isValid", Value: "true"},
			{Name: "consume", Value: "false"},
		}, item.Properties)
	}
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	doc := &manifest.DataFetch{Items: []manifest.DataItem{
		manifest.NewDataItem("tenantA/securitykey/k1", "tenantA", manifest.DefaultProperties()),
	}}

	got := Merge(doc, []reconcile.Entry{{Name: "tenantB/otherkey/k2", Type: "otherkey", Tenant: "tenantB"}})
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 1, doc.Len())

	got.Items[0].Properties[0].Value = "mutated"
	assert.Equal(t, "true", doc.Items[0].Properties[0].Value)

	got.Items[1].Properties[0].Value = "mutated"
	assert.Equal(t, "true", manifest.DefaultProperties()[0].Value)
}

func TestMerge_NothingToAdd(t *testing.T) {
	doc := &manifest.DataFetch{Items: []manifest.DataItem{
		manifest.NewDataItem("tenantA/securitykey/k1", "tenantA", nil),
	}}
	got := Merge(doc, nil)
	assert.True(t, got.Equal(doc))
}

func TestMerge_NilDocument(t *testing.T) {
	got := Merge(nil, []reconcile.Entry{{Name: "t/otherkey/k", Type: "otherkey", Tenant: "t"}})
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "t/otherkey/k", got.Items[0].Resource)
}

// Reconciling the merged manifest against the same tree yields nothing new.
func TestMerge_Idempotent(t *testing.T) {
	doc := &manifest.DataFetch{Items: []manifest.DataItem{
		manifest.NewDataItem("tenantA/securitykey/k1", "tenantA", nil),
		manifest.NewDataItem("tenantZ/securitykey/gone", "tenantZ", nil),
	}}
	tree := reconcile.NewSet(
		reconcile.Entry{Name: "tenantA/securitykey/k1", Type: "securitykey", Tenant: "tenantA"},
		reconcile.Entry{Name: "tenantB/otherkey/k2", Type: "otherkey", Tenant: "tenantB"},
		reconcile.Entry{Name: "tenantB/otherkey/k3", Type: "otherkey", Tenant: "tenantB"},
	)

	declared, err := classify.Entries(doc.Items)
	require.NoError(t, err)
	first := reconcile.Reconcile(declared, tree)
	require.Len(t, first.ToAdd, 2)

	merged := Merge(doc, first.ToAdd)

	declared, err = classify.Entries(merged.Items)
	require.NoError(t, err)
	second := reconcile.Reconcile(declared, tree)
	assert.Empty(t, second.ToAdd)
	assert.Equal(t, first.ToRemove, second.ToRemove)
}

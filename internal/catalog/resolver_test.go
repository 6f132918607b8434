package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitControlID(t *testing.T) {
	prefix, item, err := SplitControlID("4.2.1")
	require.NoError(t, err)
	assert.Equal(t, "4.2", prefix)
	assert.Equal(t, "1", item)

	for _, bad := range []string{"", "4.2", "4.2.1.5", "4.x.1", "4.2.0", "-1.2.3"} {
		_, _, err := SplitControlID(bad)
		assert.ErrorIs(t, err, ErrInvalidControlID, "id %q", bad)
	}
}

func TestResolve(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	t.Run("first sub-requirement is template-only", func(t *testing.T) {
		res, err := c.Resolve("4.2.1")
		require.NoError(t, err)
		assert.False(t, res.NeedsEvidence)
		assert.Equal(t, ModalityNone, res.Modality)
		assert.NotEmpty(t, res.TemplateReason)
		assert.Empty(t, res.ApplicableFormTypes)
	})

	t.Run("explicit template-only entry", func(t *testing.T) {
		res, err := c.Resolve("5.1.4")
		require.NoError(t, err)
		assert.False(t, res.NeedsEvidence)
		assert.Equal(t, "Covered by the enterprise risk management charter", res.TemplateReason)
	})

	t.Run("operational control maps its category's form types", func(t *testing.T) {
		res, err := c.Resolve("4.9.3")
		require.NoError(t, err)
		assert.True(t, res.NeedsEvidence)
		assert.Equal(t, ModalityOperational, res.Modality)
		assert.Equal(t, []FormType{FormIncidentReport}, res.ApplicableFormTypes)
	})

	t.Run("static control", func(t *testing.T) {
		res, err := c.Resolve("4.3.2")
		require.NoError(t, err)
		assert.Equal(t, ModalityStatic, res.Modality)
		assert.NotEmpty(t, res.StaticDescription)
		assert.Empty(t, res.ApplicableFormTypes)
	})

	t.Run("category with forms and static evidence is both", func(t *testing.T) {
		res, err := c.Resolve("4.8.2")
		require.NoError(t, err)
		assert.Equal(t, ModalityBoth, res.Modality)
		assert.NotEmpty(t, res.ApplicableFormTypes)
		assert.NotEmpty(t, res.StaticDescription)
	})

	t.Run("unmapped control is a configuration error", func(t *testing.T) {
		_, err := c.Resolve("8.8.2")
		assert.ErrorIs(t, err, ErrControlUnmapped)
	})

	t.Run("same answer regardless of call order", func(t *testing.T) {
		first, err := c.Resolve("4.9.3")
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			_, _ = c.Resolve("4.2.1")
			again, err := c.Resolve("4.9.3")
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

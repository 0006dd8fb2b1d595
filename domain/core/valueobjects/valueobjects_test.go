package valueobjects

import (
	"testing"

	pkgerrors "connecting-party-manager/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceTagCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		a    []TagComponent
		b    []TagComponent
		want DeviceTag
	}{
		{
			name: "order independent",
			a:    []TagComponent{{"nhs_as_client", "AAA"}, {"nhs_mhs_svc_ia", "urn:x"}},
			b:    []TagComponent{{"nhs_mhs_svc_ia", "urn:x"}, {"nhs_as_client", "AAA"}},
			want: "nhs_as_client=aaa&nhs_mhs_svc_ia=urn%3Ax",
		},
		{
			name: "case insensitive",
			a:    []TagComponent{{"Party_Key", "F5H1R-850000"}},
			b:    []TagComponent{{"party_key", "f5h1r-850000"}},
			want: "party_key=f5h1r-850000",
		},
		{
			name: "repeated component collapses",
			a:    []TagComponent{{"a", "1"}, {"A", "1"}},
			b:    []TagComponent{{"a", "1"}},
			want: "a=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewDeviceTag(tt.a...)
			require.NoError(t, err)
			b, err := NewDeviceTag(tt.b...)
			require.NoError(t, err)

			assert.Equal(t, tt.want, a)
			assert.Equal(t, a, b)

			set := map[DeviceTag]bool{a: true}
			assert.True(t, set[b])
		})
	}
}

func TestDeviceTagComponentsRoundTrip(t *testing.T) {
	tag, err := DeviceTagFromMap(map[string]string{"b": "x&y=z", "a": "Q"})
	require.NoError(t, err)

	assert.Equal(t, []TagComponent{{"a", "q"}, {"b", "x&y=z"}}, tag.Components())
}

func TestDeviceTagRejectsEmpty(t *testing.T) {
	_, err := NewDeviceTag()
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewDeviceTag(TagComponent{Name: " ", Value: "x"})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewProductID(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := NewProductID()
		assert.True(t, IsProductID(string(id)), id)
	}

	_, err := ParseProductID("P.AAA")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestParseEnvironment(t *testing.T) {
	env, err := ParseEnvironment("prod")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentProd, env)

	_, err = ParseEnvironment("staging")
	assert.Error(t, err)
}

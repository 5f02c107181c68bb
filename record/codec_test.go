package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := map[string]Record{
		"full": {
			Name:          "Ana",
			Country:       "Italy",
			Location:      "Tuscany",
			NameOnMap:     boolPtr(true),
			ContactInfo:   "@ana:example.org",
			CaptchaAnswer: "lemonade",
		},
		"statistics only": {
			Name:          "Bob",
			Country:       "France",
			NameOnMap:     boolPtr(false),
			CaptchaAnswer: "orange",
		},
		"no location": {
			Name:          "Chao",
			Country:       "Vietnam",
			NameOnMap:     boolPtr(true),
			CaptchaAnswer: "tea",
		},
	}

	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			encoded, err := Encode(r)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, r, decoded)
		})
	}
}

func TestDecodeLegacySchema(t *testing.T) {
	payload := []byte(`["Dora","United States of America","Texas","true","","Lemonade"]`)

	r, err := Decode(payload)
	require.NoError(t, err)

	require.Equal(t, "Dora", r.Name)
	require.Equal(t, "USA", r.Country)
	require.Equal(t, "Texas", r.Location)
	require.NotNil(t, r.NameOnMap)
	require.True(t, *r.NameOnMap)
	require.Equal(t, "lemonade", r.CaptchaAnswer)
}

func TestDecodeLegacyKeepsShortCountries(t *testing.T) {
	payload := []byte(`["Eli","Portugal","","false","","fish"]`)

	r, err := Decode(payload)
	require.NoError(t, err)
	require.Equal(t, "Portugal", r.Country)
	require.False(t, *r.NameOnMap)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for name, payload := range map[string][]byte{
		"binary":        {0x00, 0x01, 0x02},
		"empty object":  []byte(`{}`),
		"short array":   []byte(`["only","three","fields"]`),
		"wrong types":   []byte(`[1,2,3,4,5,6]`),
		"bad pref":      []byte(`["a","b","c","maybe","d","e"]`),
		"missing field": []byte(`{"name":"x","country":"y"}`),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(payload)
			require.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestComplete(t *testing.T) {
	r := Record{Name: "Ana", Country: "Italy", CaptchaAnswer: "lemonade"}
	require.False(t, r.Complete())

	r.NameOnMap = boolPtr(false)
	require.True(t, r.Complete())

	r.Name = ""
	require.False(t, r.Complete())
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePayload_StampsVersionAndNormalizes(t *testing.T) {
	data, err := EncodePayload(Payload{})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"schemaVersion": 1,
		"credentials": [],
		"memory": {"preferences": {}, "facts": []},
		"conversations": [],
		"files": []
	}`, string(data))
}

func TestEncodePayload_RejectsUnknownVersion(t *testing.T) {
	_, err := EncodePayload(Payload{SchemaVersion: 2})
	assert.ErrorIs(t, err, ErrUnsupportedPayloadSchema)
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, p Payload)
	}{
		{
			name: "records are carried opaquely",
			data: `{"schemaVersion":1,"credentials":[{"site":"example.com","tags":["a","b"]}],"memory":{"preferences":{"theme":"dark"}}}`,
			check: func(t *testing.T, p Payload) {
				require.Len(t, p.Credentials, 1)
				assert.JSONEq(t, `{"site":"example.com","tags":["a","b"]}`, string(p.Credentials[0]))
				assert.Equal(t, json.RawMessage(`"dark"`), p.Memory.Preferences["theme"])
				// absent collections come back empty, not nil
				assert.NotNil(t, p.Files)
				assert.NotNil(t, p.Memory.Facts)
			},
		},
		{
			name:    "missing version",
			data:    `{"credentials":[]}`,
			wantErr: ErrUnsupportedPayloadSchema,
		},
		{
			name:    "future version",
			data:    `{"schemaVersion":7}`,
			wantErr: ErrUnsupportedPayloadSchema,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := DecodePayload([]byte(tc.data))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, p)
		})
	}

	_, err := DecodePayload([]byte(`not json`))
	assert.Error(t, err)
}

func TestDefaultPayload_RoundTrip(t *testing.T) {
	data, err := EncodePayload(DefaultPayload())
	require.NoError(t, err)

	got, err := DecodePayload(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultPayload(), got)
}

package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		body string
		want OptionalNumber
	}{
		{`{}`, OptionalNumber{}},
		{`{"n":null}`, OptionalNumber{}},
		{`{"n":""}`, OptionalNumber{}},
		{`{"n":"  "}`, OptionalNumber{}},
		{`{"n":0}`, Number(0)},
		{`{"n":3.25}`, Number(3.25)},
		{`{"n":"3.5"}`, Number(3.5)},
		{`{"n":"-1"}`, Number(-1)},
		{`{"n":"abc"}`, OptionalNumber{Set: true}},
		{`{"n":"NaN"}`, OptionalNumber{Set: true}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var v struct {
				N OptionalNumber `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.body), &v))
			assert.Equal(t, tt.want, v.N)
		})
	}
}

func TestOptionalNumber_RejectsWrongTypes(t *testing.T) {
	for _, body := range []string{`{"n":true}`, `{"n":[1]}`, `{"n":{"v":1}}`} {
		var v struct {
			N OptionalNumber `json:"n"`
		}
		assert.Error(t, json.Unmarshal([]byte(body), &v), body)
	}
}

func TestOptionalNumber_Marshal(t *testing.T) {
	b, err := json.Marshal(map[string]OptionalNumber{"a": Number(2.5), "b": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(b))

	assert.Nil(t, OptionalNumber{}.Ptr())
	assert.Equal(t, 2.5, *Number(2.5).Ptr())
}

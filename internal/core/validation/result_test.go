package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_StartsValid(t *testing.T) {
	r := NewBuilder().Result()
	assert.True(t, r.IsValid)
	assert.Nil(t, r.Errors)
	assert.NotNil(t, r.CleanedData)
	assert.Empty(t, r.CleanedData)
}

func TestBuilder_ErrorsAppendInOrder(t *testing.T) {
	b := NewBuilder()
	b.Set("email", "a@b.co")
	b.AddError("title", "too short", "abc")
	b.AddError("price", "too low", 5)

	r := b.Result()
	assert.False(t, r.IsValid)
	require.Len(t, r.Errors, 2)
	assert.Equal(t, "title", r.Errors[0].Field)
	assert.Equal(t, "price", r.Errors[1].Field)
	assert.Equal(t, []string{"title", "price"}, r.Fields())
	assert.Equal(t, "a@b.co", r.CleanedData["email"])
}

func TestBuilder_ResultIsFrozen(t *testing.T) {
	b := NewBuilder()
	b.Set("a", 1)
	r := b.Result()

	b.Set("b", 2)
	b.AddError("c", "bad", nil)

	assert.True(t, r.IsValid)
	assert.Len(t, r.CleanedData, 1)
	assert.Empty(t, r.Errors)
}

func TestResult_JSON(t *testing.T) {
	data, err := json.Marshal(NewBuilder().Result())
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"errors":null,"cleaned_data":{}}`, string(data))

	b := NewBuilder()
	b.AddError("email", "Invalid email format", "x")
	data, err = json.Marshal(b.Result())
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":false,"errors":[{"field":"email","message":"Invalid email format","value":"x"}],"cleaned_data":{}}`, string(data))
}

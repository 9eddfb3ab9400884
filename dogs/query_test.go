package dogs

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParams(t *testing.T) {
	q, err := url.ParseQuery("attribute=tailLength&order=desc&pageNumber=2&pageSize=%2010%20")
	require.NoError(t, err)

	p := listParams(q)
	assert.Equal(t, "tailLength", p.Attribute)
	assert.Equal(t, "desc", p.Order)
	require.NotNil(t, p.PageNumber)
	require.NotNil(t, p.PageSize)
	assert.Equal(t, 2, *p.PageNumber)
	assert.Equal(t, 10, *p.PageSize)
}

func TestListParams_Absent(t *testing.T) {
	p := listParams(url.Values{})
	assert.Empty(t, p.Attribute)
	assert.Empty(t, p.Order)
	assert.Nil(t, p.PageNumber)
	assert.Nil(t, p.PageSize)
}

func TestQueryInt_NotANumber(t *testing.T) {
	q := url.Values{"pageSize": {"ten"}, "pageNumber": {"1.5"}}
	assert.Nil(t, queryInt(q, "pageSize"))
	assert.Nil(t, queryInt(q, "pageNumber"))
}

func TestQueryValue_ExactKeyWins(t *testing.T) {
	q := url.Values{"order": {"desc"}, "ORDER": {"asc"}}
	assert.Equal(t, "desc", queryValue(q, "order"))
}

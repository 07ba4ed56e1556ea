package population

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_MarshalKeepsOrder(t *testing.T) {
	table := NewTable()
	table.Set("منطقة مكة المكرمة", Aggregate{Male: 2, Female: 1, Saudi: 1, NonSaudi: 2, Total: 3})
	table.Set("منطقة الرياض", Aggregate{Male: 5, Female: 4, Saudi: 6, NonSaudi: 3, Total: 9})

	data, err := json.Marshal(table)
	require.NoError(t, err)

	want := `{"منطقة مكة المكرمة":{"male":2,"female":1,"saudi":1,"non_saudi":2,"total":3},` +
		`"منطقة الرياض":{"male":5,"female":4,"saudi":6,"non_saudi":3,"total":9}}`
	assert.Equal(t, want, string(data))
}

func TestTable_UnmarshalKeepsDocumentOrder(t *testing.T) {
	doc := `{"b":{"total":1},"a":{"total":2},"c":{"total":3}}`

	var table Table
	require.NoError(t, json.Unmarshal([]byte(doc), &table))

	assert.Equal(t, []string{"b", "a", "c"}, table.Keys())
	a, ok := table.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(2), a.Total)
}

func TestTable_RoundTrip(t *testing.T) {
	table := NewTable()
	table.Set("80+", Aggregate{Male: 1, Total: 1})
	table.Set("0 - 4", Aggregate{Female: 7, Total: 7})

	data, err := json.Marshal(table)
	require.NoError(t, err)

	decoded := NewTable()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, table, decoded)
}

func TestTable_UnmarshalRejectsNonObject(t *testing.T) {
	var table Table
	err := json.Unmarshal([]byte(`[1,2]`), &table)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "expected object"))
}

func TestTable_UnmarshalNull(t *testing.T) {
	var table Table
	require.NoError(t, json.Unmarshal([]byte(`null`), &table))
	assert.Equal(t, 0, table.Len())
}

func TestTable_Reordered(t *testing.T) {
	table := NewTable()
	for _, k := range []string{"x", "c", "a", "y", "b"} {
		table.Set(k, Aggregate{Total: 1})
	}

	got := table.Reordered([]string{"a", "b", "c", "d", "a"})

	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, got.Keys())
	assert.Equal(t, []string{"x", "c", "a", "y", "b"}, table.Keys(), "source table must not change")
}

func TestTable_SortedByTotal(t *testing.T) {
	table := NewTable()
	table.Set("low", Aggregate{Total: 1})
	table.Set("tie-first", Aggregate{Total: 5})
	table.Set("high", Aggregate{Total: 9})
	table.Set("tie-second", Aggregate{Total: 5})

	got := table.SortedByTotal()

	assert.Equal(t, []string{"high", "tie-first", "tie-second", "low"}, got.Keys())
	assert.Equal(t, int64(20), got.Sum())
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.Nil(t, table.Keys())
	assert.Equal(t, int64(0), table.Sum())
	_, ok := table.Get("x")
	assert.False(t, ok)
}

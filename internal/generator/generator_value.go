package generator

import (
	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
)

// ValueGen draws literals for a column type.
type ValueGen struct{}

// ArbitraryFrom returns a literal of type t.
func (v ValueGen) ArbitraryFrom(r generation.Source, t schema.ColumnType) schema.Value {
	return v.ArbitrarySizedFrom(r, t, generation.BigTextMax)
}

// ArbitrarySizedFrom returns a literal of type t whose TEXT or BLOB payload
// is at most size bytes.
func (ValueGen) ArbitrarySizedFrom(r generation.Source, t schema.ColumnType, size int) schema.Value {
	switch t {
	case schema.TypeInteger:
		return schema.IntValue(arbitraryInt(r))
	case schema.TypeReal:
		units := generation.GenRange(r, -RealUnitsMax, RealUnitsMax+1)
		return schema.RealValue(float64(units) / RealScale)
	case schema.TypeText:
		if size >= generation.BigTextMax {
			return schema.TextValue(generation.RandomText(r))
		}
		return schema.TextValue(generation.RandomTextSized(r, size))
	case schema.TypeBlob:
		if size <= 0 {
			return schema.BlobValue([]byte{})
		}
		n := generation.GenRange(r, 1, min(size, BlobLenMax)+1)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(r.Intn(256))
		}
		return schema.BlobValue(buf)
	}
	return schema.IntValue(0)
}

func arbitraryInt(r generation.Source) int64 {
	return generation.Frequency(r, []generation.Weighted[int, int64]{
		{Weight: 6, Gen: func(r generation.Source) int64 {
			return int64(generation.GenRange(r, -SmallIntMax, SmallIntMax+1))
		}},
		{Weight: 3, Gen: func(r generation.Source) int64 {
			return int64(generation.GenRange(r, -WideIntMax, WideIntMax+1))
		}},
		{Weight: 1, Gen: func(r generation.Source) int64 {
			return *generation.Pick(r, []int64{0, 1, -1})
		}},
	})
}

// RowGen draws full rows for a table.
type RowGen struct {
	Values ValueGen
}

// ArbitraryFrom returns a row matching tbl's columns.
func (g RowGen) ArbitraryFrom(r generation.Source, tbl *schema.Table) schema.Row {
	return g.ArbitrarySizedFrom(r, tbl, generation.BigTextMax)
}

// ArbitrarySizedFrom returns a row whose TEXT and BLOB cells are at most size bytes.
func (g RowGen) ArbitrarySizedFrom(r generation.Source, tbl *schema.Table, size int) schema.Row {
	row := make(schema.Row, len(tbl.Columns))
	for i, col := range tbl.Columns {
		row[i] = g.Values.ArbitrarySizedFrom(r, col.Type, size)
	}
	return row
}

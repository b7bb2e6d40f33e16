package out

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	pqfile "github.com/apache/arrow-go/v18/parquet/file"
	pqschema "github.com/apache/arrow-go/v18/parquet/schema"
	"github.com/ericbudish/racewatch/internal/book"
)

// BBORowGroupNode returns the Parquet schema's group node for artifact 2
// (spec.md §6.4.2), adapted column-by-column from the teacher's
// ParquetGroupNode_Mbp1Msg (internal/file/parquet_writer.go) for
// book.BBORow instead of dbn.Mbp1Msg.
//
// optional int32 field_id=-1 msg_idx;
// optional int64 field_id=-1 ts_event (Timestamp(nanoseconds));
// optional int64 field_id=-1 best_bid;
// optional int64 field_id=-1 best_ask;
// optional double field_id=-1 bid_disp_qty;
// optional double field_id=-1 ask_disp_qty;
// optional int64 field_id=-1 best_bid_h;
// optional int64 field_id=-1 best_ask_h;
// optional double field_id=-1 bid_total_qty;
// optional double field_id=-1 ask_total_qty;
// optional boolean field_id=-1 regular_hour;
// optional int64 field_id=-1 spread;
// optional int64 field_id=-1 mid_pt;
// optional boolean field_id=-1 chg_mid_pt;
func BBORowGroupNode() *pqschema.GroupNode {
	return pqschema.MustGroup(pqschema.NewGroupNode("schema", parquet.Repetitions.Required, pqschema.FieldList{
		pqschema.NewInt32Node("msg_idx", parquet.Repetitions.Optional, -1),
		pqschema.MustPrimitive(pqschema.NewPrimitiveNodeLogical("ts_event", parquet.Repetitions.Optional, pqschema.NewTimestampLogicalType(true, pqschema.TimeUnitNanos), parquet.Types.Int64, 0, -1)),
		pqschema.NewInt64Node("best_bid", parquet.Repetitions.Optional, -1),
		pqschema.NewInt64Node("best_ask", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("bid_disp_qty", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("ask_disp_qty", parquet.Repetitions.Optional, -1),
		pqschema.NewInt64Node("best_bid_h", parquet.Repetitions.Optional, -1),
		pqschema.NewInt64Node("best_ask_h", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("bid_total_qty", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("ask_total_qty", parquet.Repetitions.Optional, -1),
		pqschema.NewBooleanNode("regular_hour", parquet.Repetitions.Optional, -1),
		pqschema.NewInt64Node("spread", parquet.Repetitions.Optional, -1),
		pqschema.NewInt64Node("mid_pt", parquet.Repetitions.Optional, -1),
		pqschema.NewBooleanNode("chg_mid_pt", parquet.Repetitions.Optional, -1),
	}, -1))
}

// WriteBBORow writes one BBORow to rgw's columns, the same
// column-at-a-time shape as the teacher's ParquetWriteRow_Mbp1Msg.
func WriteBBORow(rgw pqfile.BufferedRowGroupWriter, r *book.BBORow) error {
	defLevel := []int16{1}

	cw, _ := rgw.Column(0)
	cw.(*pqfile.Int32ColumnChunkWriter).WriteBatch([]int32{int32(r.MsgIdx)}, defLevel, nil)
	cw, _ = rgw.Column(1)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{r.Timestamp.UnixNano()}, defLevel, nil)
	cw, _ = rgw.Column(2)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{int64(r.BestBid)}, defLevel, nil)
	cw, _ = rgw.Column(3)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{int64(r.BestAsk)}, defLevel, nil)
	cw, _ = rgw.Column(4)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{r.BidDispQty}, defLevel, nil)
	cw, _ = rgw.Column(5)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{r.AskDispQty}, defLevel, nil)
	cw, _ = rgw.Column(6)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{int64(r.BestBidH)}, defLevel, nil)
	cw, _ = rgw.Column(7)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{int64(r.BestAskH)}, defLevel, nil)
	cw, _ = rgw.Column(8)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{r.BidTotalQty}, defLevel, nil)
	cw, _ = rgw.Column(9)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{r.AskTotalQty}, defLevel, nil)
	cw, _ = rgw.Column(10)
	cw.(*pqfile.BooleanColumnChunkWriter).WriteBatch([]bool{r.RegularHour}, defLevel, nil)
	cw, _ = rgw.Column(11)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{int64(r.Spread)}, defLevel, nil)
	cw, _ = rgw.Column(12)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{int64(r.MidPt)}, defLevel, nil)
	cw, _ = rgw.Column(13)
	cw.(*pqfile.BooleanColumnChunkWriter).WriteBatch([]bool{r.ChgMidPt}, defLevel, nil)
	return nil
}

// WriteBBOParquet writes artifact 2 (spec.md §6.4.2) as a single-row-group
// Parquet file, grounded on the teacher's WriteDbnFileAsParquet
// (internal/file/parquet_writer.go): V2 writer properties, Snappy
// compression, one buffered row group flushed with its footer.
func WriteBBOParquet(w io.Writer, rows []book.BBORow) error {
	props := parquet.NewWriterProperties(
		parquet.WithVersion(parquet.V2_LATEST),
		parquet.WithCompression(compress.Codecs.Snappy))

	pw := pqfile.NewParquetWriter(w, BBORowGroupNode(), pqfile.WithWriterProps(props))
	defer pw.Close()

	rgw := pw.AppendBufferedRowGroup()
	for i := range rows {
		if err := WriteBBORow(rgw, &rows[i]); err != nil {
			rgw.Close()
			return fmt.Errorf("out: writing bbo row %d: %w", rows[i].MsgIdx, err)
		}
	}
	if err := rgw.Close(); err != nil {
		return fmt.Errorf("out: closing row group: %w", err)
	}
	if err := pw.FlushWithFooter(); err != nil {
		return fmt.Errorf("out: flushing parquet: %w", err)
	}
	return nil
}

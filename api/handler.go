// Package api - HTTP handlers for settlement calculations
// Handlers decode and validate requests, delegate to core/batch and encode
// the presented rows. They contain NO settlement arithmetic.
package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"payout-calc/adapters/tabular"
	"payout-calc/core/batch"
	"payout-calc/core/output"
	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

const (
	maxJSONBody = 8 << 20
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// processor builds a per-request processor over the server rates with any
// override applied.
func (s *Server) processor(r *http.Request, o *RateOverride) (*batch.Processor, error) {
	logger := s.logger.Named("batch").With(zap.String("request_id", RequestID(r.Context())))
	return batch.NewProcessor(o.Apply(s.rates), logger)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, "BODY_TOO_LARGE", err.Error(), http.StatusRequestEntityTooLarge)
			return false
		}
		s.writeError(w, r, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeError(w, r, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// handlePayout handles POST /v1/payout
func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	var req PayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.processor(r, req.Rates)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	res := p.Payout(types.ProductInput{
		SKU:            req.SKU,
		SalePrice:      *req.SalePrice,
		Cost:           *req.Cost,
		GSTRatePercent: *req.GSTRatePercent,
		RoyaltyPercent: *req.RoyaltyPercent,
	})
	if res.Err != nil {
		s.writeErr(w, r, res.Err)
		return
	}
	s.writeJSON(w, PayoutResponse{
		RequestID: RequestID(r.Context()),
		Rates:     p.Rates(),
		Result:    batch.PresentPayout(res),
	}, http.StatusOK)
}

// handlePrice handles POST /v1/price
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.processor(r, req.Rates)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	in := types.ProductInput{
		SKU:            req.SKU,
		Cost:           *req.Cost,
		TargetProfit:   *req.TargetProfit,
		GSTRatePercent: *req.GSTRatePercent,
		RoyaltyPercent: *req.RoyaltyPercent,
		PriceCeiling:   req.MRP,
	}
	res := p.Price(in)
	if res.Err != nil {
		s.writeErr(w, r, res.Err)
		return
	}

	resp := PriceResponse{
		RequestID: RequestID(r.Context()),
		Rates:     p.Rates(),
		Result:    batch.PresentPrice(res),
	}
	if price := res.Solution.RequiredSalePrice; price != nil {
		check := in
		check.SalePrice = *price
		row := batch.PresentPayout(p.Payout(check))
		resp.Verification = &row
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleBulk handles POST /v1/bulk/{direction}
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	dir, err := types.ParseDirection(chi.URLParam(r, "direction"))
	if err != nil {
		s.writeError(w, r, "NOT_FOUND", err.Error(), http.StatusNotFound)
		return
	}
	var req BulkRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Rows) > s.cfg.MaxBatchRows {
		s.writeError(w, r, "TOO_MANY_ROWS",
			fmt.Sprintf("%d rows exceeds the limit of %d", len(req.Rows), s.cfg.MaxBatchRows),
			http.StatusRequestEntityTooLarge)
		return
	}
	p, err := s.processor(r, req.Rates)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	records := bulkRecords(req.Rows, dir)
	if dir == types.DirectionForward {
		results := slices.Collect(p.ProcessForward(records))
		summary := p.SummarizeForward(results)
		s.metrics.ObserveRows(summary)
		resp := BulkPayoutResponse{RequestID: RequestID(r.Context()), Rates: p.Rates(), Summary: summary}
		for _, res := range results {
			resp.Rows = append(resp.Rows, batch.PresentPayout(res))
		}
		s.writeJSON(w, resp, http.StatusOK)
		return
	}

	results := slices.Collect(p.ProcessBackward(records))
	summary := p.SummarizeBackward(results)
	s.metrics.ObserveRows(summary)
	resp := BulkPriceResponse{RequestID: RequestID(r.Context()), Rates: p.Rates(), Summary: summary}
	for _, res := range results {
		resp.Rows = append(resp.Rows, batch.PresentPrice(res))
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// bulkRecords turns JSON rows into records, marking rows that lack a field
// or carry a value that is not a number.
func bulkRecords(rows []BulkRow, dir types.Direction) iter.Seq[batch.Record] {
	return func(yield func(batch.Record) bool) {
		for i, row := range rows {
			rec := batch.Record{Row: i + 1, Input: types.ProductInput{SKU: row.SKU}}
			var missing, problems []string
			need := func(name string, v *Number, dst *float64) {
				switch {
				case v == nil:
					missing = append(missing, name)
				case !v.Valid:
					problems = append(problems, tabular.NotANumber(name, v.Raw))
				default:
					*dst = v.Value
				}
			}
			if dir == types.DirectionForward {
				need("sale_price", row.SalePrice, &rec.Input.SalePrice)
			}
			need("cost", row.Cost, &rec.Input.Cost)
			need("gst_rate_percent", row.GSTRatePercent, &rec.Input.GSTRatePercent)
			need("royalty_percent", row.RoyaltyPercent, &rec.Input.RoyaltyPercent)
			if dir == types.DirectionBackward {
				need("target_profit", row.TargetProfit, &rec.Input.TargetProfit)
				if row.MRP != nil {
					var mrp float64
					need("mrp", row.MRP, &mrp)
					if row.MRP.Valid {
						rec.Input.PriceCeiling = &mrp
					}
				}
			}
			if len(missing) > 0 {
				problems = append([]string{"missing " + strings.Join(missing, ", ")}, problems...)
			}
			if len(problems) > 0 {
				rec.Err = errors.Input(strings.Join(problems, "; "))
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// handleUpload handles POST /v1/bulk/{direction}/upload. The spreadsheet is
// sent as the multipart field "file"; results come back as XLSX, or CSV with
// ?format=csv.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	dir, err := types.ParseDirection(chi.URLParam(r, "direction"))
	if err != nil {
		s.writeError(w, r, "NOT_FOUND", err.Error(), http.StatusNotFound)
		return
	}
	outFormat := output.FormatXLSX
	if f := r.URL.Query().Get("format"); f != "" {
		if outFormat, err = output.ParseFormat(f); err != nil || !outFormat.IsFile() {
			s.writeError(w, r, string(errors.TypeNotSupported), "format must be xlsx or csv", http.StatusBadRequest)
			return
		}
	}

	limit := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, "UPLOAD_TOO_LARGE",
				fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB), http.StatusRequestEntityTooLarge)
			return
		}
		s.writeError(w, r, "INVALID_UPLOAD", err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, "INVALID_UPLOAD", "multipart field \"file\" is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	inFormat, err := output.FileFormat(header.Filename)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	table, err := tabular.Read(file, inFormat)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := tabular.RequireColumns(table, tabular.Required(dir)); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if table.Len() > s.cfg.MaxBatchRows {
		s.writeError(w, r, "TOO_MANY_ROWS",
			fmt.Sprintf("%d rows exceeds the limit of %d", table.Len(), s.cfg.MaxBatchRows),
			http.StatusRequestEntityTooLarge)
		return
	}

	p, err := s.processor(r, nil)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	sheet, summary := tabular.Process(p, tabular.Records(table, dir), dir)
	s.metrics.ObserveRows(summary)

	w.Header().Set("X-Rows-Processed", fmt.Sprint(summary.Processed))
	w.Header().Set("X-Rows-Failed", fmt.Sprint(summary.Failed))
	s.writeSheet(w, r, sheet, outFormat, string(dir)+"_results")
}

// handleTemplate handles GET /v1/templates/{direction}
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	dir, err := types.ParseDirection(chi.URLParam(r, "direction"))
	if err != nil {
		s.writeError(w, r, "NOT_FOUND", err.Error(), http.StatusNotFound)
		return
	}
	format := output.FormatXLSX
	if r.URL.Query().Get("format") == string(output.FormatCSV) {
		format = output.FormatCSV
	}
	sheet := output.PayoutTemplate()
	if dir == types.DirectionBackward {
		sheet = output.PriceTemplate()
	}
	s.writeSheet(w, r, sheet, format, string(dir)+"_template")
}

func (s *Server) writeSheet(w http.ResponseWriter, r *http.Request, sheet output.Sheet, format output.Format, name string) {
	var buf bytes.Buffer
	var err error
	contentType := xlsxType
	if format == output.FormatCSV {
		contentType = "text/csv"
		err = tabular.WriteCSV(&buf, sheet)
	} else {
		err = tabular.WriteXLSX(&buf, sheet)
	}
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+string(format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("writing sheet", zap.Error(err))
	}
}

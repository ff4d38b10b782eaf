package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/buildinfo"
	"github.com/matzehuels/qmap/pkg/errors"
	pkgio "github.com/matzehuels/qmap/pkg/io"
	"github.com/matzehuels/qmap/pkg/pipeline"
	"github.com/matzehuels/qmap/pkg/store"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type architecture struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Qubits      int    `json:"qubits"`
}

func (s *Server) listArchitectures(w http.ResponseWriter, r *http.Request) {
	devices := s.runner.Catalog.Devices()
	out := make([]architecture, len(devices))
	for i, d := range devices {
		out[i] = architecture{Name: d.Name, Description: d.Description, Qubits: d.Qubits}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listAllocators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Registry.Entries())
}

// allocationRequest is the body of POST /v1/allocations. Device, when set,
// is an architecture document in any JSON form pkg/io reads and takes
// precedence over a catalog lookup of Arch.
type allocationRequest struct {
	pipeline.Options
	Device json.RawMessage `json:"device,omitempty"`
}

// allocationResponse is a stored record plus the replayed operations and
// any rendered artifacts.
type allocationResponse struct {
	*store.Record
	Mapping   string            `json:"mapping"`
	Physical  []bmt.PhysicalOp  `json:"physical"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

func (s *Server) createAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts := req.Options
	if opts.MaxChildren > maxRequestChildren || opts.MaxPartial > maxRequestPartial {
		writeError(w, errors.New(errors.ErrCodeInvalidOption,
			"search limits %d/%d exceed the server maximum %d/%d",
			opts.MaxChildren, opts.MaxPartial, maxRequestChildren, maxRequestPartial))
		return
	}
	if len(req.Device) > 0 {
		g, err := pkgio.ReadArch(bytes.NewReader(req.Device), pkgio.FormatJSON)
		if err != nil {
			writeError(w, err)
			return
		}
		opts.Graph = g
	}
	opts.Logger = s.logger

	start := time.Now()
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := store.NewRecord(res.Allocator, res.Arch, res.Solution)
	rec.ID = res.RunID
	rec.Qubits = res.Stats.Qubits
	rec.Instructions = res.Stats.Instructions
	rec.DurationMS = time.Since(start).Milliseconds()
	rec.CacheHit = res.CacheInfo.Hit
	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	resp, err := newAllocationResponse(rec, res)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/allocations/"+rec.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func newAllocationResponse(rec *store.Record, res *pipeline.Result) (*allocationResponse, error) {
	ops, err := res.Solution.Replay(res.Graph)
	if err != nil {
		return nil, err
	}
	if ops == nil {
		ops = []bmt.PhysicalOp{}
	}
	resp := &allocationResponse{
		Record:   rec,
		Mapping:  res.Solution.Initial.String(),
		Physical: ops,
	}
	for f, data := range res.Artifacts {
		if f == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string][]byte)
		}
		resp.Artifacts[f] = data
	}
	return resp, nil
}

func (s *Server) listAllocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{Allocator: q.Get("allocator"), Arch: q.Get("arch")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		opts.Limit = n
	}
	recs, err := s.store.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getAllocation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

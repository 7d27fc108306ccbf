package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/bobmcallan/toolgate/internal/common"
	"github.com/bobmcallan/toolgate/internal/tools"
)

// CorrelationHeader carries the request correlation ID set by the server
// middleware.
const CorrelationHeader = "X-Correlation-ID"

// ToolInfo describes one tool in the GET /api/tools listing.
type ToolInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      []tools.ParamSpec `json:"params"`
}

// rpcRequest is the body of POST /rpc. Args are matched to the tool's
// parameters by position, Params by name. When both are present Params wins
// for any name it sets.
type rpcRequest struct {
	Method string                 `json:"method"`
	Args   []interface{}          `json:"args"`
	Params map[string]interface{} `json:"params"`
}

// ToolsHandler is the direct-call binding. Per-tool credentials travel as
// tool parameters, so there is no gate here.
type ToolsHandler struct {
	gw     *tools.Gateway
	logger *common.Logger
}

// NewToolsHandler creates the direct-call handler over gw.
func NewToolsHandler(gw *tools.Gateway, logger *common.Logger) *ToolsHandler {
	return &ToolsHandler{gw: gw, logger: logger}
}

// HandleList handles GET /api/tools.
func (h *ToolsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	defs := h.gw.Tools()
	out := make([]ToolInfo, 0, len(defs))
	for _, def := range defs {
		params := def.Params
		if params == nil {
			params = []tools.ParamSpec{}
		}
		out = append(out, ToolInfo{Name: def.Name, Description: def.Description, Params: params})
	}
	WriteJSON(w, http.StatusOK, out)
}

// HandleToolGet handles GET /api/tools/{name}?param=value. Dotted keys
// address nested fields, e.g. options.maxResults=3.
func (h *ToolsHandler) HandleToolGet(w http.ResponseWriter, r *http.Request) {
	name, ok := h.toolName(w, r)
	if !ok {
		return
	}
	h.invoke(w, r, name, queryArgs(r.URL.Query()))
}

// HandleToolPost handles POST /api/tools/{name} with a JSON object of
// arguments by name. An empty body means no arguments.
func (h *ToolsHandler) HandleToolPost(w http.ResponseWriter, r *http.Request) {
	name, ok := h.toolName(w, r)
	if !ok {
		return
	}

	raw := map[string]interface{}{}
	if err := decodeBody(r, &raw); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	h.invoke(w, r, name, raw)
}

// HandleRPC handles POST /rpc, the generic forwarding endpoint that invokes
// any tool by name.
func (h *ToolsHandler) HandleRPC(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req rpcRequest
	if err := decodeBody(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Method == "" {
		writeText(w, http.StatusBadRequest, "method is required")
		return
	}

	def, ok := h.gw.Lookup(req.Method)
	if !ok {
		writeText(w, http.StatusNotFound, fmt.Sprintf("unknown tool %q", req.Method))
		return
	}

	raw, err := positionalArgs(def.Params, req.Args)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	for k, v := range req.Params {
		raw[k] = v
	}
	h.invoke(w, r, def.Name, raw)
}

func (h *ToolsHandler) toolName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tools/"), "/")
	if _, ok := h.gw.Lookup(name); !ok {
		writeText(w, http.StatusNotFound, fmt.Sprintf("unknown tool %q", name))
		return "", false
	}
	return name, true
}

func (h *ToolsHandler) invoke(w http.ResponseWriter, r *http.Request, name string, raw map[string]interface{}) {
	inv := tools.Invocation{
		Binding:       tools.BindingDirect,
		CorrelationID: r.Header.Get(CorrelationHeader),
		RemoteAddr:    r.RemoteAddr,
		UserAgent:     r.UserAgent(),
	}
	WriteResult(w, h.gw.Call(r.Context(), inv, name, raw))
}

// WriteResult writes a tool result for the direct-call binding: the raw
// payload with its content type on success, 400 for validation failures
// and 500 for everything else, each with a plain-text message.
func WriteResult(w http.ResponseWriter, res tools.Result) {
	if f := res.Failure(); f != nil {
		status := http.StatusInternalServerError
		if f.Kind == tools.KindValidation {
			status = http.StatusBadRequest
		}
		writeText(w, status, f.Message)
		return
	}

	p := res.Payload()
	w.Header().Set("Content-Type", p.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Body)
}

// positionalArgs names args by the order of params. Null entries are
// treated as not supplied.
func positionalArgs(params []tools.ParamSpec, args []interface{}) (map[string]interface{}, error) {
	raw := make(map[string]interface{}, len(args))
	if len(args) > len(params) {
		return nil, fmt.Errorf("too many arguments: expected at most %d, got %d", len(params), len(args))
	}
	for i, v := range args {
		if v == nil {
			continue
		}
		raw[params[i].Name] = v
	}
	return raw, nil
}

// queryArgs converts query parameters into raw arguments. Repeated keys
// become lists; dotted keys build nested objects. Keys apply shallowest
// first, so options.maxResults=3 refines an options={...} JSON object.
func queryArgs(q url.Values) map[string]interface{} {
	keys := make([]string, 0, len(q))
	for key := range q {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := strings.Count(keys[i], "."), strings.Count(keys[j], ".")
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})

	raw := make(map[string]interface{}, len(q))
	for _, key := range keys {
		values := q[key]
		var v interface{} = values[0]
		if len(values) > 1 {
			list := make([]interface{}, len(values))
			for i, s := range values {
				list[i] = s
			}
			v = list
		}

		parts := strings.Split(key, ".")
		target := raw
		for _, part := range parts[:len(parts)-1] {
			next, ok := objectValue(target[part])
			if !ok {
				next = map[string]interface{}{}
			}
			target[part] = next
			target = next
		}
		target[parts[len(parts)-1]] = v
	}
	return raw
}

// objectValue returns v as an object, decoding a JSON object string.
func objectValue(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case string:
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(t), &m); err != nil || m == nil {
			return nil, false
		}
		return m, true
	}
	return nil, false
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

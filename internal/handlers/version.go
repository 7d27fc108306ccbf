package handlers

import (
	"net/http"

	"github.com/bobmcallan/toolgate/internal/common"
)

// VersionHandler handles version information requests.
type VersionHandler struct {
	name   string
	logger *common.Logger
}

// NewVersionHandler creates a new version handler for the named gateway.
func NewVersionHandler(name string, logger *common.Logger) *VersionHandler {
	return &VersionHandler{name: name, logger: logger}
}

// ServeHTTP handles GET /api/version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"name":       h.name,
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

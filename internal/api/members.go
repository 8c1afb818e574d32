package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) listMembers(c *gin.Context) {
	members, err := s.ledger.ListMembers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]Member, 0, len(members))
	for i := range members {
		out = append(out, newMember(&members[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	name := req.Name
	if name == "" {
		name = req.MemberName
	}
	m, err := s.ledger.CreateMember(c.Request.Context(), name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMember(m))
}

func (s *Server) listInstrumentTypes(c *gin.Context) {
	types, err := s.ledger.ListInstrumentTypes(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]InstrumentType, 0, len(types))
	for _, t := range types {
		out = append(out, InstrumentType{ID: t.ID, Name: t.Name})
	}
	c.JSON(http.StatusOK, out)
}

// exportDatabase streams a consistent snapshot of the SQLite file.
func (s *Server) exportDatabase(c *gin.Context) {
	dir, err := os.MkdirTemp("", "journal-export-")
	if err != nil {
		s.respondError(c, fmt.Errorf("failed to create export directory: %w", err))
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "trading.db")
	if err := s.ledger.Backup(c.Request.Context(), path); err != nil {
		s.respondError(c, err)
		return
	}
	name := fmt.Sprintf("trading-%s.db", s.now().Format("20060102-150405"))
	c.FileAttachment(path, name)
}

// importDatabase replaces the journal with an uploaded backup, sent as the
// multipart "file" field.
func (s *Server) importDatabase(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: no file uploaded", errBadRequest))
		return
	}
	dir, err := os.MkdirTemp("", "journal-import-")
	if err != nil {
		s.respondError(c, fmt.Errorf("failed to create import directory: %w", err))
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "upload.db")
	if err := c.SaveUploadedFile(header, path); err != nil {
		s.respondError(c, fmt.Errorf("failed to store upload: %w", err))
		return
	}
	stats, err := s.ledger.Restore(c.Request.Context(), path)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("Database imported", zap.String("file", header.Filename))
	c.JSON(http.StatusOK, DatabaseImportResponse{Message: "Database imported", Journal: stats})
}

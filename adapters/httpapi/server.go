// Package httpapi exposes the job control surface over HTTP. Handlers are
// thin: they validate the request shape, call a use case, and map the error
// taxonomy to status codes. No handler talks to the provider directly.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
	"github.com/domainops/domainops/internal/ratelimit"
	"github.com/domainops/domainops/usecase/redirect"
	syncuc "github.com/domainops/domainops/usecase/sync"
	"github.com/gin-gonic/gin"
)

// Server wires use cases to routes.
type Server struct {
	Sync     *syncuc.UseCase
	Redirect *redirect.UseCase
	Governor *ratelimit.Governor
	Domains  domain.DomainRepository
	Snapshot domain.SnapshotRepository
	Logger   logging.Logger
	Version  string
}

// Router builds the gin engine. Release mode keeps gin's own chatter out of
// the structured logs.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if s.Logger != nil {
		r.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), s.Logger))
			c.Next()
		})
	}

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/governor", s.governorStatus)
	api.GET("/progress", s.progress)
	api.GET("/domains", s.listDomains)
	api.GET("/domains/:domain/snapshots", s.snapshotHistory)
	api.POST("/domains/pull", s.pullDomains)
	api.POST("/sync/start", s.startSync)
	api.POST("/sync/stop", s.stopSync)
	api.POST("/sync/resume", s.resumeSync)
	api.POST("/redirect", s.setRedirect)
	api.POST("/forwarding", s.startForwarding)
	return r
}

type errorBody struct {
	Error string `json:"error"`
}

// fail maps domain errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrJobAlreadyRunning):
		status = http.StatusConflict
	case errors.Is(err, model.ErrJobNotResumable), errors.Is(err, model.ErrJobNotFound):
		status = http.StatusConflict
	case errors.Is(err, model.ErrDomainNotFound), errors.Is(err, model.ErrSnapshotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	c.JSON(status, errorBody{Error: err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.Version})
}

func (s *Server) governorStatus(c *gin.Context) {
	if s.Governor == nil {
		c.JSON(http.StatusOK, ratelimit.Status{})
		return
	}
	c.JSON(http.StatusOK, s.Governor.Status())
}

func (s *Server) progress(c *gin.Context) {
	kind := model.JobKind(c.DefaultQuery("kind", string(model.JobKindFullSync)))
	out, err := s.Sync.Progress(c.Request.Context(), &syncuc.ProgressInput{Kind: kind})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.State)
}

func (s *Server) listDomains(c *gin.Context) {
	entries, err := s.Domains.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": entries, "count": len(entries)})
}

func (s *Server) snapshotHistory(c *gin.Context) {
	metas, err := s.Snapshot.History(c.Request.Context(), c.Param("domain"), 0)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": metas})
}

func (s *Server) pullDomains(c *gin.Context) {
	var in syncuc.PullDomainsInput
	if err := bindOptional(c, &in); err != nil {
		return
	}
	out, err := s.Sync.PullDomains(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// startSyncRequest selects the job kind; the remaining fields feed the
// kind-specific start input.
type startSyncRequest struct {
	Kind    model.JobKind          `json:"kind"`
	Domains []string               `json:"domains,omitempty"`
	Name    string                 `json:"name,omitempty"`
	Target  string                 `json:"target,omitempty"`
	Client  string                 `json:"client,omitempty"`
	Rules   []model.ForwardingRule `json:"rules,omitempty"`
}

func (s *Server) startSync(c *gin.Context) {
	var req startSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Kind == "" {
		req.Kind = model.JobKindFullSync
	}

	var (
		out *syncuc.StartOutput
		err error
	)
	ctx := c.Request.Context()
	switch req.Kind {
	case model.JobKindFullSync:
		out, err = s.Sync.StartFullSync(ctx, &syncuc.StartFullSyncInput{Domains: req.Domains})
	case model.JobKindRedirect:
		out, err = s.Sync.StartRedirect(ctx, &syncuc.StartRedirectInput{
			Domains: req.Domains, Name: req.Name, Target: req.Target, Client: req.Client,
		})
	case model.JobKindForwarding:
		out, err = s.Sync.StartForwarding(ctx, &syncuc.StartForwardingInput{
			Domains: req.Domains, Rules: req.Rules,
		})
	default:
		c.JSON(http.StatusBadRequest, errorBody{Error: "unknown job kind: " + string(req.Kind)})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, out.State)
}

type jobKindRequest struct {
	Kind model.JobKind `json:"kind"`
}

func (s *Server) stopSync(c *gin.Context) {
	var req jobKindRequest
	if err := bindOptional(c, &req); err != nil {
		return
	}
	if req.Kind == "" {
		req.Kind = model.JobKindFullSync
	}
	out, err := s.Sync.Stop(c.Request.Context(), &syncuc.StopInput{Kind: req.Kind})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.State)
}

func (s *Server) resumeSync(c *gin.Context) {
	var req jobKindRequest
	if err := bindOptional(c, &req); err != nil {
		return
	}
	if req.Kind == "" {
		req.Kind = model.JobKindFullSync
	}
	out, err := s.Sync.Resume(c.Request.Context(), &syncuc.ResumeInput{Kind: req.Kind})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.State)
}

// setRedirect performs one synchronous safe update. An unverified write is
// reported, not hidden: 200 with verified=false plus the verification error.
func (s *Server) setRedirect(c *gin.Context) {
	var in redirect.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	out, err := s.Redirect.Update(c.Request.Context(), &in)
	if err != nil {
		if out != nil && out.Written && errors.Is(err, model.ErrVerificationFailed) {
			c.JSON(http.StatusOK, gin.H{
				"written":  out.Written,
				"verified": out.Verified,
				"error":    err.Error(),
			})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) startForwarding(c *gin.Context) {
	var in syncuc.StartForwardingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	out, err := s.Sync.StartForwarding(c.Request.Context(), &in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, out.State)
}

// bindOptional decodes a JSON body when one is present; an empty body means
// all defaults. Responds 400 itself on malformed input.
func bindOptional(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return err
	}
	return nil
}

package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonardotrapani/neuronote/internal/apperr"
)

const (
	formField = "file"

	msgNoFilePart   = "No file part in the request."
	msgNoFileChosen = "No selected file."
	msgTooLarge     = "Uploaded file exceeds the maximum allowed size."
)

// multipart parts above this size spill to temp files
const maxFormMemory = 32 << 20

type recordedAudioResponse struct {
	Status         string  `json:"status"`
	Text           string  `json:"text"`
	Insights       string  `json:"insights"`
	Transcript     string  `json:"transcript"`
	MeetingID      string  `json:"meetingId"`
	TranscriptPath *string `json:"transcriptPath"`
	InsightsPath   *string `json:"insightsPath"`
}

type componentStatus struct {
	Ready    bool   `json:"ready"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

type healthResponse struct {
	Status      string          `json:"status"`
	Transcriber componentStatus `json:"transcriber"`
	Insights    componentStatus `json:"insights"`
}

func (s *Server) handleRecordedAudio(c *gin.Context) {
	done := s.deps.Metrics.TrackInFlight()
	defer done()

	// stamped on arrival, before the body is read
	meetingID := s.deps.IDs.Next()

	fh, err := s.uploadedFile(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.deps.Metrics.ObserveUpload(fh.Size)

	log := s.log.With().
		Str("request_id", c.GetString(requestIDKey)).
		Str("meeting_id", meetingID).
		Str("filename", fh.Filename).
		Logger()
	log.Info().Int64("bytes", fh.Size).Msg("received audio upload")

	src, err := fh.Open()
	if err != nil {
		s.fail(c, apperr.FileStorage(fmt.Sprintf("Could not save uploaded file %s: %v", fh.Filename, err), err))
		return
	}
	path, err := s.deps.Uploads.WriteUpload(src, meetingID, fh.Filename)
	src.Close()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer func() {
		if err := s.deps.Uploads.RemoveUpload(path); err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to remove temporary upload")
		} else {
			log.Debug().Str("path", path).Msg("removed temporary upload")
		}
	}()

	res, err := s.deps.Processor.Process(c.Request.Context(), path, meetingID)
	if err != nil {
		s.fail(c, apperr.Translate(err, fmt.Sprintf("An unexpected error occurred while processing file %s.", fh.Filename)))
		return
	}

	log.Info().Msg("processed audio and generated insights")
	s.deps.Metrics.RecordRequest(http.StatusOK)
	c.JSON(http.StatusOK, recordedAudioResponse{
		Status:         "success",
		Text:           res.Insights,
		Insights:       res.Insights,
		Transcript:     res.Transcript,
		MeetingID:      res.MeetingID,
		TranscriptPath: res.TranscriptPath,
		InsightsPath:   res.InsightsPath,
	})
}

// uploadedFile returns the "file" part. Go's multipart reader files a part
// with an empty filename under form values, which is how an empty file
// selection arrives.
func (s *Server) uploadedFile(c *gin.Context) (*multipart.FileHeader, error) {
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.BadRequest(msgTooLarge)
		}
		return nil, apperr.BadRequest(msgNoFilePart)
	}

	form := c.Request.MultipartForm
	if files := form.File[formField]; len(files) > 0 {
		if files[0].Filename == "" {
			return nil, apperr.BadRequest(msgNoFileChosen)
		}
		return files[0], nil
	}
	if _, ok := form.Value[formField]; ok {
		return nil, apperr.BadRequest(msgNoFileChosen)
	}
	return nil, apperr.BadRequest(msgNoFilePart)
}

func (s *Server) fail(c *gin.Context, err error) {
	appErr := apperr.Translate(err, apperr.MsgInternal)
	ev := s.log.Warn()
	if appErr.Status() >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(appErr.Unwrap()).
		Str("request_id", c.GetString(requestIDKey)).
		Str("kind", string(appErr.Kind)).
		Int("status", appErr.Status()).
		Msg(appErr.Message)

	s.deps.Metrics.RecordRequest(appErr.Status())
	c.AbortWithStatusJSON(appErr.Status(), appErr.Envelope())
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status:      "ok",
		Transcriber: statusOf(s.deps.Transcriber),
		Insights:    statusOf(s.deps.Insights),
	}
	code := http.StatusOK
	if !resp.Transcriber.Ready || !resp.Insights.Ready {
		resp.Status = "error"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func statusOf(comp Component) componentStatus {
	if comp == nil {
		return componentStatus{}
	}
	return componentStatus{Ready: comp.Ready(), Provider: comp.Provider(), Model: comp.Model()}
}

func (s *Server) handleNotFound(c *gin.Context) {
	appErr := apperr.NotFound()
	c.AbortWithStatusJSON(appErr.Status(), appErr.Envelope())
}

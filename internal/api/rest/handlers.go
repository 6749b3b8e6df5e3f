package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "device-inspector/internal/application"
	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

const (
	defaultResultsLimit = 100
	reportLimit         = 10000
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
}

func (s *Server) modelStatus(c *gin.Context) {
	if s.models == nil {
		c.JSON(http.StatusOK, gin.H{"state": "unknown", "yolo_loaded": false, "cnn_loaded": false})
		return
	}
	c.JSON(http.StatusOK, s.models.Status())
}

func (s *Server) analyzeImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "file is required"})
		return
	}
	data, err := readUpload(file)
	if err != nil {
		s.fail(c, err)
		return
	}

	out, err := s.svc.AnalyzeImage(c.Request.Context(), file.Filename, data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Record)
}

func (s *Server) analyzeBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "multipart form is required"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "files are required"})
		return
	}

	items := make([]app.BatchItem, 0, len(files))
	for _, f := range files {
		data, err := readUpload(f)
		if err != nil {
			s.fail(c, err)
			return
		}
		items = append(items, app.BatchItem{Filename: f.Filename, Data: data})
	}

	batchID, results, err := s.svc.AnalyzeBatch(c.Request.Context(), items)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, batchResponse{BatchID: batchID, Results: results})
}

func (s *Server) analyzeFrame(c *gin.Context) {
	var data []byte
	if file, err := c.FormFile("file"); err == nil {
		if data, err = readUpload(file); err != nil {
			s.fail(c, err)
			return
		}
	} else if b64 := c.PostForm("image"); b64 != "" {
		if data, err = decodeBase64Image(b64); err != nil {
			s.fail(c, err)
			return
		}
	} else {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "file or image is required"})
		return
	}

	out, err := s.svc.AnalyzeFrame(c.Request.Context(), data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, frameResponse{AnalysisRecord: out.Record, ProcessedImage: encodeBase64Image(out.Annotated)})
}

func (s *Server) evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	dets, cls := req.toEntities()
	c.JSON(http.StatusOK, s.svc.EvaluateDetections(dets, cls))
}

func (s *Server) progress(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Progress())
}

func (s *Server) results(c *gin.Context) {
	filter, err := parseFilter(c, defaultResultsLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	records, err := s.svc.Results(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": records})
}

func (s *Server) statistics(c *gin.Context) {
	filter, err := parseFilter(c, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	stats, err := s.svc.Statistics(c.Request.Context(), filter.From, filter.To)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) report(c *gin.Context) {
	filter, err := parseFilter(c, reportLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	name := fmt.Sprintf("analysis_report_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Status(http.StatusOK)

	if err := s.svc.WriteReport(c.Request.Context(), c.Writer, filter); err != nil {
		s.log.Error("write report", zap.Error(err))
	}
}

// fail переводит ошибку сервиса в HTTP-статус.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrEmptyImage), errors.Is(err, entity.ErrUndecodableImage):
		status = http.StatusBadRequest
	case errors.Is(err, port.ErrModelUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, app.ErrBatchRunning):
		status = http.StatusConflict
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseFilter читает status, start_date, end_date, limit, offset.
func parseFilter(c *gin.Context, defaultLimit int) (entity.ResultFilter, error) {
	f := entity.ResultFilter{Limit: defaultLimit}

	if st := c.Query("status"); st != "" {
		switch entity.Status(st) {
		case entity.StatusPass, entity.StatusFail, entity.StatusError:
			f.Status = entity.Status(st)
		default:
			return f, fmt.Errorf("unknown status %q", st)
		}
	}

	var err error
	if f.From, err = parseDate(c.Query("start_date"), false); err != nil {
		return f, err
	}
	if f.To, err = parseDate(c.Query("end_date"), true); err != nil {
		return f, err
	}

	if v := c.Query("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 0 {
			return f, fmt.Errorf("invalid limit %q", v)
		}
	}
	if v := c.Query("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil || f.Offset < 0 {
			return f, fmt.Errorf("invalid offset %q", v)
		}
	}
	return f, nil
}

// parseDate принимает RFC3339 или YYYY-MM-DD. Для конца периода
// дата без времени включает весь день.
func parseDate(v string, endOfDay bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

package fileupload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	fileuploaderrors "github.com/JerkingFan/Evalyze/internal/fileupload/errors"
	"github.com/JerkingFan/Evalyze/internal/profile"
	"github.com/JerkingFan/Evalyze/internal/user"
	"github.com/JerkingFan/Evalyze/internal/webhook"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFileSize caps a single upload at 20 MiB.
const MaxFileSize = 20 << 20

//go:generate mockgen -source=fileupload_service.go -destination=mock/fileupload_service_mock.go -package=mock

type Service interface {
	Upload(ctx context.Context, userEmail string, header *multipart.FileHeader) (*FileResponse, error)
	List(ctx context.Context, userEmail string) ([]FileResponse, error)
	// Open resolves metadata and an open reader for a download. The
	// caller closes the reader.
	Open(ctx context.Context, userEmail, fileID string) (*FileUpload, io.ReadCloser, error)
	Delete(ctx context.Context, userEmail, fileID string) error
	Analyze(ctx context.Context, userEmail, fileID string) (*AnalyzeResponse, error)

	// LoadUserFiles satisfies the profile generation file source.
	LoadUserFiles(ctx context.Context, userID uuid.UUID) ([]profile.FileAttachment, error)
}

type service struct {
	files      Repository
	users      user.Repository
	dispatcher webhook.Dispatcher
	rootDir    string
	logger     *zap.Logger
}

func NewService(
	files Repository,
	users user.Repository,
	dispatcher webhook.Dispatcher,
	rootDir string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("fileupload.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if rootDir == "" {
		rootDir = "uploads"
	}
	return &service{
		files:      files,
		users:      users,
		dispatcher: dispatcher,
		rootDir:    rootDir,
		logger:     l,
	}
}

// Upload stores the bytes under {root}/{userID}/{storedName} and records
// the metadata. The stored name is a fresh UUID so original file names
// never reach the filesystem.
func (s *service) Upload(ctx context.Context, userEmail string, header *multipart.FileHeader) (*FileResponse, error) {
	if header == nil {
		return nil, fileuploaderrors.ErrFileRequired
	}
	if header.Size > MaxFileSize {
		return nil, fileuploaderrors.ErrFileTooLarge
	}

	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	dir := filepath.Join(s.rootDir, u.ID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dstPath := filepath.Join(dir, storedName)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	f := &FileUpload{
		ID:          uuid.New(),
		UserID:      u.ID,
		FileName:    filepath.Base(header.Filename),
		StoredName:  storedName,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   written,
	}
	if err := s.files.Create(ctx, f); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", f.ID.String()),
		zap.String("user_id", u.ID.String()),
		zap.Int64("size_bytes", written),
	)

	resp := toFileResponse(f)
	return &resp, nil
}

func (s *service) List(ctx context.Context, userEmail string) ([]FileResponse, error) {
	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	files, err := s.files.FindByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]FileResponse, len(files))
	for i := range files {
		resp[i] = toFileResponse(&files[i])
	}
	return resp, nil
}

func (s *service) Open(ctx context.Context, userEmail, fileID string) (*FileUpload, io.ReadCloser, error) {
	f, err := s.ownedFile(ctx, userEmail, fileID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := os.Open(s.path(f))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fileuploaderrors.ErrFileNotFound
		}
		return nil, nil, err
	}
	return f, reader, nil
}

func (s *service) Delete(ctx context.Context, userEmail, fileID string) error {
	f, err := s.ownedFile(ctx, userEmail, fileID)
	if err != nil {
		return err
	}

	if err := s.files.DeleteByID(ctx, f.UserID, f.ID); err != nil {
		return err
	}

	if err := os.Remove(s.path(f)); err != nil && !os.IsNotExist(err) {
		// Metadata is gone; the orphaned blob is only a disk-space leak.
		s.logger.Warn("removing stored file failed",
			zap.String("file_id", f.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// Analyze posts the document inline to the competency analysis hook and
// returns the automation result. This is the one synchronous hook call:
// the caller waits for the analysis.
func (s *service) Analyze(ctx context.Context, userEmail, fileID string) (*AnalyzeResponse, error) {
	if s.dispatcher == nil {
		return nil, webhook.ErrHookNotConfigured
	}

	f, err := s.ownedFile(ctx, userEmail, fileID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(f))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fileuploaderrors.ErrFileNotFound
		}
		return nil, err
	}

	payload := map[string]any{
		"user_id": f.UserID.String(),
		"files": []profile.FileAttachment{{
			FileName:    f.FileName,
			ContentType: f.ContentType,
			DataBase64:  base64.StdEncoding.EncodeToString(data),
		}},
	}

	body, err := s.dispatcher.Send(ctx, webhook.KindAnalyzeCompetencies, payload)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}
	return &AnalyzeResponse{Result: body}, nil
}

func (s *service) LoadUserFiles(ctx context.Context, userID uuid.UUID) ([]profile.FileAttachment, error) {
	files, err := s.files.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	attachments := make([]profile.FileAttachment, 0, len(files))
	for i := range files {
		data, err := os.ReadFile(s.path(&files[i]))
		if err != nil {
			s.logger.Warn("reading stored file failed",
				zap.String("file_id", files[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		attachments = append(attachments, profile.FileAttachment{
			FileName:    files[i].FileName,
			ContentType: files[i].ContentType,
			DataBase64:  base64.StdEncoding.EncodeToString(data),
		})
	}
	return attachments, nil
}

func (s *service) ownedFile(ctx context.Context, userEmail, fileID string) (*FileUpload, error) {
	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(fileID)
	if err != nil {
		return nil, fileuploaderrors.ErrInvalidFileID
	}

	return s.files.FindByID(ctx, u.ID, id)
}

func (s *service) path(f *FileUpload) string {
	return filepath.Join(s.rootDir, f.UserID.String(), f.StoredName)
}

func toFileResponse(f *FileUpload) FileResponse {
	return FileResponse{
		ID:          f.ID.String(),
		UserID:      f.UserID.String(),
		FileName:    f.FileName,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		CreatedAt:   f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

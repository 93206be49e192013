package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/database"
	"github.com/niveshak/niveshak/internal/version"
)

const (
	archiveBasePrefix = "niveshak-backup-"
	timestampLayout   = "2006-01-02-150405"
	metadataFilename  = "backup-metadata.json"

	// The newest backups survive rotation regardless of age.
	minBackupsToKeep = 3
)

// ObjectStore is the storage surface the backup service needs.
// *S3Client satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64) error
	List(ctx context.Context, prefix string) ([]types.Object, error)
	Delete(ctx context.Context, key string) error
}

// Metadata describes the contents of one backup archive
type Metadata struct {
	Timestamp  time.Time          `json:"timestamp"`
	AppVersion string             `json:"app_version"`
	Databases  []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata records one database snapshot inside the archive
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// Info describes a backup archive stored remotely
type Info struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// Service snapshots the SQLite databases into a tar.gz archive and ships
// it to object storage. Snapshots use VACUUM INTO, so archives never
// contain live WAL state.
type Service struct {
	store     ObjectStore
	databases map[string]*database.DB
	dataDir   string
	prefix    string
	keepDays  int
	log       zerolog.Logger
}

// NewService creates a backup service. prefix is the object key prefix
// inside the bucket, keepDays the remote retention window.
func NewService(
	store ObjectStore,
	databases map[string]*database.DB,
	dataDir string,
	prefix string,
	keepDays int,
	log zerolog.Logger,
) *Service {
	return &Service{
		store:     store,
		databases: databases,
		dataDir:   dataDir,
		prefix:    prefix,
		keepDays:  keepDays,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

// CreateAndUpload snapshots every database, archives the snapshots with a
// metadata file, and uploads the archive. Returns the archive filename.
func (s *Service) CreateAndUpload(ctx context.Context) (string, error) {
	s.log.Info().Msg("Starting backup")
	startTime := time.Now()

	stagingDir, err := os.MkdirTemp(s.dataDir, "backup-staging-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	meta := Metadata{
		Timestamp:  time.Now().UTC(),
		AppVersion: version.Version,
		Databases:  make([]DatabaseMetadata, 0, len(s.databases)),
	}

	names := make([]string, 0, len(s.databases))
	for name := range s.databases {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]string, 0, len(names)+1)
	for _, name := range names {
		filename := name + ".db"
		snapshotPath := filepath.Join(stagingDir, filename)

		s.log.Debug().Str("database", name).Msg("Snapshotting database")

		if err := s.databases[name].VacuumInto(ctx, snapshotPath); err != nil {
			return "", fmt.Errorf("failed to snapshot %s: %w", name, err)
		}
		if err := verifySnapshot(snapshotPath); err != nil {
			return "", fmt.Errorf("snapshot verification failed for %s: %w", name, err)
		}

		info, err := os.Stat(snapshotPath)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s snapshot: %w", name, err)
		}

		checksum, err := fileChecksum(snapshotPath)
		if err != nil {
			return "", fmt.Errorf("failed to checksum %s snapshot: %w", name, err)
		}

		meta.Databases = append(meta.Databases, DatabaseMetadata{
			Name:      name,
			Filename:  filename,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
		files = append(files, filename)
	}

	if err := writeMetadata(filepath.Join(stagingDir, metadataFilename), meta); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	files = append(files, metadataFilename)

	archiveName := archiveBasePrefix + time.Now().Format(timestampLayout) + ".tar.gz"
	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, stagingDir, files); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.store.Upload(ctx, s.objectKey(archiveName), archiveFile, archiveInfo.Size()); err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Backup completed")

	return archiveName, nil
}

// ListBackups returns remote backups, newest first. Objects that do not
// look like backup archives are skipped.
func (s *Service) ListBackups(ctx context.Context) ([]Info, error) {
	objects, err := s.store.List(ctx, s.objectKey(archiveBasePrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]Info, 0, len(objects))
	now := time.Now()

	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}

		filename := path.Base(*obj.Key)
		if !strings.HasPrefix(filename, archiveBasePrefix) || !strings.HasSuffix(filename, ".tar.gz") {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(filename, archiveBasePrefix), ".tar.gz")
		timestamp, err := time.Parse(timestampLayout, stamp)
		if err != nil {
			s.log.Warn().Str("filename", filename).Msg("Failed to parse timestamp from filename")
			continue
		}

		var sizeBytes int64
		if obj.Size != nil {
			sizeBytes = *obj.Size
		}

		backups = append(backups, Info{
			Filename:  filename,
			Timestamp: timestamp,
			SizeBytes: sizeBytes,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// RotateOld deletes remote backups older than the retention window.
// The newest three always survive, and keepDays <= 0 keeps everything.
func (s *Service) RotateOld(ctx context.Context) error {
	backups, err := s.ListBackups(ctx)
	if err != nil {
		return err
	}

	if len(backups) <= minBackupsToKeep || s.keepDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.keepDays)

	deleted := 0
	for _, b := range backups[minBackupsToKeep:] {
		if !b.Timestamp.Before(cutoff) {
			continue
		}

		if err := s.store.Delete(ctx, s.objectKey(b.Filename)); err != nil {
			s.log.Error().Err(err).Str("filename", b.Filename).Msg("Failed to delete old backup")
			continue
		}

		s.log.Info().
			Str("filename", b.Filename).
			Time("timestamp", b.Timestamp).
			Msg("Deleted old backup")
		deleted++
	}

	if deleted > 0 {
		s.log.Info().
			Int("deleted", deleted).
			Int("remaining", len(backups)-deleted).
			Msg("Backup rotation completed")
	}

	return nil
}

// objectKey prepends the configured key prefix, if any.
func (s *Service) objectKey(name string) string {
	if s.prefix == "" {
		return name
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + name
}

// verifySnapshot opens a snapshot and runs an integrity check
func verifySnapshot(snapshotPath string) error {
	snapshot, err := sql.Open("sqlite", snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer snapshot.Close()

	var result string
	if err := snapshot.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	return nil
}

// fileChecksum calculates the SHA256 checksum of a file
func fileChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

// writeMetadata writes backup metadata to a JSON file
func writeMetadata(metadataPath string, meta Metadata) error {
	file, err := os.Create(metadataPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}

// createArchive bundles the named files from sourceDir into a tar.gz archive
func createArchive(archivePath, sourceDir string, filenames []string) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, filename := range filenames {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, filename), filename); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filename, err)
		}
	}

	return nil
}

// addFileToArchive adds a single file to a tar archive
func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(tarWriter, file); err != nil {
		return err
	}

	return nil
}

// BackupJob adapts the backup service to the scheduler
type BackupJob struct {
	svc *Service
}

// NewBackupJob creates the nightly backup job
func NewBackupJob(svc *Service) *BackupJob {
	return &BackupJob{svc: svc}
}

// Name implements scheduler.Job
func (j *BackupJob) Name() string {
	return "nightly_backup"
}

// Run implements scheduler.Job
func (j *BackupJob) Run() error {
	ctx := context.Background()

	if _, err := j.svc.CreateAndUpload(ctx); err != nil {
		return err
	}
	return j.svc.RotateOld(ctx)
}

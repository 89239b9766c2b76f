package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/oshokin/loadshed-guard/internal/config"
	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	pb "github.com/oshokin/loadshed-guard/internal/pb/v1"
)

// Repository defines persistence operations for the shutdown record.
type Repository interface {
	Load(ctx context.Context) (*outage.Shutdown, error)
	Save(ctx context.Context, record *outage.Shutdown) error
}

// FileRepository persists the last shutdown record to a JSON file on disk.
// JSON is produced and consumed via protojson from the ShutdownRecord message.
type FileRepository struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("state not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the record from disk.
func (r *FileRepository) Load(_ context.Context) (*outage.Shutdown, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var protoRecord pb.ShutdownRecord
	if err = protojson.Unmarshal(contents, &protoRecord); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return fromProto(&protoRecord), nil
}

// Save replaces the record on disk. The file is written next to the target
// and renamed so a crash never leaves a truncated record.
func (r *FileRepository) Save(_ context.Context, record *outage.Shutdown) error {
	if record == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	marshalOptions := protojson.MarshalOptions{
		Multiline:     true,
		UseProtoNames: true,
	}

	data, err := marshalOptions.Marshal(toProto(record))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := r.path + ".tmp"
	if err = os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// fromProto converts the stored message into the domain record.
func fromProto(protoRecord *pb.ShutdownRecord) *outage.Shutdown {
	record := &outage.Shutdown{
		DeviceID:     protoRecord.GetDeviceId(),
		ScheduledFor: asTime(protoRecord.GetScheduledFor()),
		FiredAt:      asTime(protoRecord.GetFiredAt()),
		Error:        protoRecord.GetError(),
		DryRun:       protoRecord.GetDryRun(),
	}

	if protoActor := protoRecord.GetActor(); protoActor != nil {
		record.Actor = &outage.Actor{
			Hostname: protoActor.GetHostname(),
			Username: protoActor.GetUsername(),
		}
	}

	return record
}

// toProto converts the domain record into its stored message.
func toProto(record *outage.Shutdown) *pb.ShutdownRecord {
	var actor *pb.SystemActor
	if record.Actor != nil {
		actor = &pb.SystemActor{
			Hostname: record.Actor.Hostname,
			Username: record.Actor.Username,
		}
	}

	return &pb.ShutdownRecord{
		DeviceId:     record.DeviceID,
		ScheduledFor: newTimestamp(record.ScheduledFor),
		FiredAt:      newTimestamp(record.FiredAt),
		Error:        record.Error,
		DryRun:       record.DryRun,
		Actor:        actor,
	}
}

func newTimestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}

	return timestamppb.New(t)
}

func asTime(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}

	return ts.AsTime()
}

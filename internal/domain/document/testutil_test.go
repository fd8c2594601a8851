package document

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"pdfvault/internal/config"
	"pdfvault/internal/objectstore"
	pkglogger "pdfvault/internal/pkg/logger"
	"pdfvault/internal/scratch"
)

const testBucket = "pdf-files"

/* ==================== MOCKS ==================== */

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, d *Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockRepository) FindByOwner(ctx context.Context, owner string) ([]*Document, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Document), args.Error(1)
}

func (m *MockRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) EnsureBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockStore) Put(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error {
	args := m.Called(ctx, bucket, key, contentType, r, size)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

/* ==================== HELPERS ==================== */

func testConfig() *config.Config {
	return &config.Config{Minio: config.MinioConfig{BucketName: testBucket}}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:document_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Document{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type testEnv struct {
	service *Service
	repo    Repository
	store   *objectstore.MemoryClient
	scratch *scratch.Manager
}

// newTestEnv wires the service to a real sqlite repository, the in-memory
// object store and a scratch dir under t.TempDir.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := NewRepository(setupTestDB(t))
	store := objectstore.NewMemoryClient()
	area, err := scratch.New(t.TempDir())
	require.NoError(t, err)

	svc := NewService(testConfig(), repo, store, area, pkglogger.Discard())
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return &testEnv{service: svc, repo: repo, store: store, scratch: area}
}

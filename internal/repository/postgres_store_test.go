package repository_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type postgresStoreSuite struct {
	suite.Suite

	store     port.KVStore
	pool      *pgxpool.Pool
	connStr   string
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	suite.Run(t, new(postgresStoreSuite))
}

// before all tests in the suite
func (suite *postgresStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)
	suite.container = container
	suite.connStr = connStr

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.store, err = repository.NewPostgresStore(suite.pool, "default")
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *postgresStoreSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		_ = testcontainers.TerminateContainer(suite.container)
	}
}

func (suite *postgresStoreSuite) TestContract() {
	assertKVStoreContract(suite.T(), suite.store)
}

func (suite *postgresStoreSuite) TestNamespacesIsolated() {
	ctx := suite.T().Context()

	other, err := repository.NewPostgresStore(suite.pool, "other")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Put(ctx, map[string][]byte{"cart": []byte("[1]")}))

	_, err = other.Get(ctx, "cart")
	suite.ErrorIs(err, port.ErrNotFound)
}

func (suite *postgresStoreSuite) TestPutWithTx_Rollback() {
	ctx := suite.T().Context()

	tx, err := suite.pool.Begin(ctx)
	suite.Require().NoError(err)

	txStore, err := repository.NewPostgresStoreWithTx(tx, "default")
	suite.Require().NoError(err)

	suite.Require().NoError(txStore.Put(ctx, map[string][]byte{
		"auth_token": []byte("abc"),
		"user_data":  []byte(`{"id":1}`),
	}))

	got, err := txStore.Get(ctx, "auth_token")
	suite.Require().NoError(err)
	suite.Equal([]byte("abc"), got)

	suite.Require().NoError(tx.Rollback(ctx))

	_, err = suite.store.Get(ctx, "auth_token")
	suite.ErrorIs(err, port.ErrNotFound)
}

func (suite *postgresStoreSuite) TestMigrateTwice() {
	suite.NoError(repository.MigratePostgres(suite.connStr))
}

func (suite *postgresStoreSuite) TestNewPostgresStore_Validation() {
	_, err := repository.NewPostgresStore(nil, "default")
	suite.EqualError(err, "pool is nil")

	_, err = repository.NewPostgresStore(suite.pool, "")
	suite.EqualError(err, "namespace is empty")
}

func (suite *postgresStoreSuite) TestOpen_WithoutNamespace() {
	store, err := repository.Open(suite.T().Context(), repository.Config{
		Driver:      repository.DriverPostgres,
		PostgresDSN: suite.connStr,
	})
	suite.EqualError(err, "namespace is empty")
	suite.Nil(store)
}

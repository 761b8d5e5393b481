package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "storefront_state"

type namespaceDoc struct {
	ID        string            `bson:"_id"`
	Entries   map[string][]byte `bson:"entries"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// mongoStore keeps a namespace as one document so a multi-key Put is a single-document update.
type mongoStore struct {
	collection *mongo.Collection
	namespace  string
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	return client.Database(database), nil
}

func NewMongoStore(db *mongo.Database, namespace string) (port.KVStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	return &mongoStore{
		collection: db.Collection(mongoCollection),
		namespace:  namespace,
	}, nil
}

func (m *mongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc namespaceDoc

	err := m.collection.FindOne(ctx, bson.M{"_id": m.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("collection.FindOne: %w", err)
	}

	v, ok := doc.Entries[key]
	if !ok {
		return nil, port.ErrNotFound
	}
	return v, nil
}

func (m *mongoStore) Put(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range entries {
		if err := validateMongoKey(k); err != nil {
			return err
		}
		set["entries."+k] = v
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, bson.M{"_id": m.namespace}, bson.M{"$set": set}, opts); err != nil {
		return fmt.Errorf("collection.UpdateOne: %w", err)
	}
	return nil
}

func (m *mongoStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	unset := bson.M{}
	for _, k := range keys {
		if err := validateMongoKey(k); err != nil {
			return err
		}
		unset["entries."+k] = ""
	}

	update := bson.M{
		"$unset": unset,
		"$set":   bson.M{"updated_at": time.Now()},
	}
	if _, err := m.collection.UpdateOne(ctx, bson.M{"_id": m.namespace}, update); err != nil {
		return fmt.Errorf("collection.UpdateOne: %w", err)
	}
	return nil
}

func (m *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.collection.Database().Client().Disconnect(ctx)
}

func validateMongoKey(key string) error {
	if key == "" || strings.ContainsAny(key, ".$") {
		return fmt.Errorf("key[%s] is not valid", key)
	}
	return nil
}

package adapters

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"schemalens/internal/db"
	"schemalens/internal/logger"
	"schemalens/internal/schema"
	"schemalens/pkg/config"
)

// sampleSize caps how many documents are read to infer a collection's
// fields. Fields absent from every sampled document stay invisible; the
// result is an approximation, not a declared schema.
const sampleSize = 100

// mongoAdapter implements db.Adapter over the native MongoDB client.
// Collections have no declared columns, so the schema is inferred from
// sampled documents.
type mongoAdapter struct {
	cfg    config.Settings
	client *mongo.Client
	db     *mongo.Database
}

func (a *mongoAdapter) Connect() bool {
	// reconnecting releases the held client instead of leaking it
	a.Disconnect()
	client, err := mongo.Connect(options.Client().ApplyURI(config.MongoURI(a.cfg)))
	if err != nil {
		logger.Error("mongodb connection error: %v", err)
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongodb connection error: %v", err)
		client.Disconnect(ctx)
		return false
	}
	a.client = client
	a.db = client.Database(a.cfg.DBName)
	return true
}

func (a *mongoAdapter) Disconnect() {
	if a.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		logger.Warn("mongodb disconnect: %v", err)
	}
	a.client = nil
	a.db = nil
}

func (a *mongoAdapter) ListContainers() []string {
	if a.db == nil {
		return nil
	}
	names, err := a.db.ListCollectionNames(context.Background(), bson.D{})
	if err != nil {
		logger.Error("mongodb list collections: %v", err)
		return nil
	}
	return names
}

func (a *mongoAdapter) DescribeContainer(name string) schema.ContainerSchema {
	if a.db == nil {
		return schema.ContainerSchema{}
	}
	// _id is the primary key by convention, whether or not any document
	// was sampled.
	s := schema.ContainerSchema{
		Name:        name,
		Kind:        schema.KindCollection,
		PrimaryKeys: []string{"_id"},
		ForeignKeys: []schema.ForeignKey{},
	}

	ctx := context.Background()
	cursor, err := a.db.Collection(name).Find(ctx, bson.D{}, options.Find().SetLimit(sampleSize))
	if err != nil {
		logger.Error("mongodb sample %s: %v", name, err)
		return s
	}
	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		logger.Error("mongodb decode samples for %s: %v", name, err)
		return s
	}
	s.Columns = sampleColumns(docs)
	return s
}

// sampleColumns infers fields from sampled documents in first-seen order.
// The type recorded for a field is the type of its value in the first
// document where the field appeared; later documents never rewrite it,
// even when their value has a different type. Every inferred field is
// nullable because presence varies across documents.
func sampleColumns(docs []bson.D) schema.Columns {
	var cols schema.Columns
	for _, doc := range docs {
		for _, elem := range doc {
			if cols.Has(elem.Key) {
				continue
			}
			cols.Add(elem.Key, schema.Column{
				Type:       bsonTypeName(elem.Value),
				Nullable:   true,
				PrimaryKey: elem.Key == "_id",
			})
		}
	}
	return cols
}

// bsonTypeName maps a decoded BSON value to a stable type name.
func bsonTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case float64:
		return "double"
	case bson.ObjectID:
		return "objectId"
	case bson.DateTime:
		return "date"
	case bson.A:
		return "array"
	case bson.D, bson.M:
		return "object"
	case bson.Binary:
		return "binary"
	case bson.Decimal128:
		return "decimal128"
	case bson.Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func init() {
	constructor := func(cfg config.Settings) db.Adapter {
		return &mongoAdapter{cfg: cfg}
	}
	db.Register("mongodb", constructor)
	db.Register("mongo", constructor)
}

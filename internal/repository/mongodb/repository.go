package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

const (
	stockCollection  = "stock"
	ledgerCollection = "ledger"
)

// stockDocument is the stored form of a stock row. Seq records first insertion so listings
// keep table order.
type stockDocument struct {
	Code    string               `bson:"_id"`
	Name    string               `bson:"name"`
	Balance primitive.Decimal128 `bson:"balance"`
	Seq     int64                `bson:"seq"`
}

type ledgerDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Seq       int64                `bson:"seq"`
	Timestamp string               `bson:"timestamp"`
	Code      string               `bson:"code"`
	Name      string               `bson:"name"`
	Kind      string               `bson:"kind"`
	Quantity  primitive.Decimal128 `bson:"quantity"`
	Note      string               `bson:"note"`
	Actor     string               `bson:"actor"`
}

// MongoDBRepository is a repository.Store with per-document stock upserts and an
// insert-only ledger collection.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// ListStock returns stock documents in insertion order.
func (r *MongoDBRepository) ListStock(ctx context.Context) ([]models.StockItem, error) {
	cursor, err := r.collection(stockCollection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}

	var docs []stockDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode stock: %w", err)
	}

	items := make([]models.StockItem, 0, len(docs))
	for _, doc := range docs {
		balance, err := fromDecimal128(doc.Balance)
		if err != nil {
			return nil, fmt.Errorf("stock %q balance: %w", doc.Code, err)
		}
		items = append(items, models.StockItem{Code: doc.Code, Name: doc.Name, Balance: balance})
	}
	return items, nil
}

// UpsertStock writes every item with an upsert keyed on the item code.
func (r *MongoDBRepository) UpsertStock(ctx context.Context, items ...models.StockItem) error {
	if len(items) == 0 {
		return nil
	}

	seq := r.now().UnixNano()
	writes := make([]mongo.WriteModel, 0, len(items))
	for i, item := range items {
		balance, err := toDecimal128(item.Balance)
		if err != nil {
			return fmt.Errorf("stock %q balance: %w", item.Code, err)
		}
		update := bson.D{
			{Key: "$set", Value: bson.D{{Key: "name", Value: item.Name}, {Key: "balance", Value: balance}}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "seq", Value: seq + int64(i)}}},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: item.Code}}).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := r.collection(stockCollection).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to upsert stock: %w", err)
	}
	return nil
}

// ListLedger returns ledger documents in append order.
func (r *MongoDBRepository) ListLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	cursor, err := r.collection(ledgerCollection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	var docs []ledgerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(docs))
	for _, doc := range docs {
		quantity, err := fromDecimal128(doc.Quantity)
		if err != nil {
			return nil, fmt.Errorf("ledger %q quantity: %w", doc.Code, err)
		}
		entries = append(entries, models.LedgerEntry{
			Timestamp: doc.Timestamp,
			Code:      doc.Code,
			Name:      doc.Name,
			Kind:      models.Kind(doc.Kind),
			Quantity:  quantity,
			Note:      doc.Note,
			Actor:     doc.Actor,
		})
	}
	return entries, nil
}

// AppendLedger inserts entries; ledger documents are never updated.
func (r *MongoDBRepository) AppendLedger(ctx context.Context, entries ...models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	seq := r.now().UnixNano()
	docs := make([]interface{}, 0, len(entries))
	for i, entry := range entries {
		quantity, err := toDecimal128(entry.Quantity)
		if err != nil {
			return fmt.Errorf("ledger %q quantity: %w", entry.Code, err)
		}
		docs = append(docs, ledgerDocument{
			Seq:       seq + int64(i),
			Timestamp: entry.Timestamp,
			Code:      entry.Code,
			Name:      entry.Name,
			Kind:      string(entry.Kind),
			Quantity:  quantity,
			Note:      entry.Note,
			Actor:     entry.Actor,
		})
	}

	if _, err := r.collection(ledgerCollection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert ledger entries: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ibquestionbank/questionbank/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB database. Documents carry an
// integer "id" field allocated from the counters collection so that ids look
// the same as on the SQL backends.
type MongoRepo struct {
	db         *mongo.Database
	questions  *mongo.Collection
	flashcards *mongo.Collection
	counters   *mongo.Collection
	now        func() time.Time
}

// NewMongoRepo prepares the collections and their indexes.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	r := &MongoRepo{
		db:         db,
		questions:  db.Collection("questions"),
		flashcards: db.Collection("flashcards"),
		counters:   db.Collection("counters"),
		now:        time.Now,
	}
	indexes := []struct {
		col    *mongo.Collection
		models []mongo.IndexModel
	}{
		{r.questions, []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "paper_type", Value: 1}, {Key: "created_at", Value: -1}}},
		}},
		{r.flashcards, []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
		}},
	}
	for _, idx := range indexes {
		if _, err := idx.col.Indexes().CreateMany(ctx, idx.models); err != nil {
			return nil, fmt.Errorf("create indexes on %s: %w", idx.col.Name(), err)
		}
	}
	return r, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

func (m *MongoRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.db.Client().Disconnect(ctx)
}

func (m *MongoRepo) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func categoryFilter(field, value string) bson.M {
	if value == "" {
		return bson.M{}
	}
	return bson.M{field: value}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}})

func (m *MongoRepo) ListQuestions(ctx context.Context, paperType string) ([]content.Question, error) {
	cur, err := m.questions.Find(ctx, categoryFilter("paper_type", paperType), newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := []content.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) RandomQuestion(ctx context.Context, paperType string) (*content.Question, error) {
	var out []content.Question
	if err := m.sample(ctx, m.questions, bson.M{"paper_type": paperType}, &out); err != nil {
		return nil, fmt.Errorf("random question: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (m *MongoRepo) CreateQuestion(ctx context.Context, q *content.Question) (int64, error) {
	id, err := m.nextID(ctx, "questions")
	if err != nil {
		return 0, err
	}
	q.ID = id
	q.CreatedAt = m.now().UTC()
	if _, err := m.questions.InsertOne(ctx, q); err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (m *MongoRepo) UpdateQuestion(ctx context.Context, id int64, text string, paperType *string) error {
	set := bson.M{"content": text}
	if paperType != nil {
		set["paper_type"] = *paperType
	}
	return m.update(ctx, m.questions, id, set)
}

func (m *MongoRepo) DeleteQuestion(ctx context.Context, id int64) error {
	return m.delete(ctx, m.questions, id)
}

func (m *MongoRepo) ListFlashcards(ctx context.Context, cardType string) ([]content.Flashcard, error) {
	cur, err := m.flashcards.Find(ctx, categoryFilter("type", cardType), newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	out := []content.Flashcard{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode flashcards: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) RandomFlashcard(ctx context.Context, cardType string) (*content.Flashcard, error) {
	var out []content.Flashcard
	if err := m.sample(ctx, m.flashcards, bson.M{"type": cardType}, &out); err != nil {
		return nil, fmt.Errorf("random flashcard: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (m *MongoRepo) CreateFlashcard(ctx context.Context, f *content.Flashcard) (int64, error) {
	id, err := m.nextID(ctx, "flashcards")
	if err != nil {
		return 0, err
	}
	f.ID = id
	f.CreatedAt = m.now().UTC()
	if _, err := m.flashcards.InsertOne(ctx, f); err != nil {
		return 0, fmt.Errorf("insert flashcard: %w", err)
	}
	return id, nil
}

func (m *MongoRepo) UpdateFlashcard(ctx context.Context, id int64, front, back string, cardType *string) error {
	set := bson.M{"front": front, "back": back}
	if cardType != nil {
		set["type"] = *cardType
	}
	return m.update(ctx, m.flashcards, id, set)
}

func (m *MongoRepo) DeleteFlashcard(ctx context.Context, id int64) error {
	return m.delete(ctx, m.flashcards, id)
}

func (m *MongoRepo) sample(ctx context.Context, col *mongo.Collection, match bson.M, out any) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (m *MongoRepo) update(ctx context.Context, col *mongo.Collection, id int64, set bson.M) error {
	res, err := col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s %d: %w", col.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) delete(ctx context.Context, col *mongo.Collection, id int64) error {
	res, err := col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", col.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}

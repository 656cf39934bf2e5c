package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"licensedesk/entity"
	"licensedesk/internal/config"
)

const (
	collectionUsers      = "users"
	collectionLicenses   = "licenses"
	collectionTickets    = "tickets"
	collectionActivities = "bot_activities"
	collectionExecutions = "script_executions"
	collectionAccounts   = "accounts"

	// listLimit bounds every full-collection read
	listLimit = 1000
)

type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	_ = connection.Disconnect(ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find: %w", err)
}

// findAll decodes every document matching filter into a non-nil slice.
func findAll[T any](ctx context.Context, m *MongoDB, name string, filter interface{}, opts *options.FindOptions) ([]T, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(name)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongodb decode %s: %w", name, err)
	}
	return items, nil
}

// findOne returns nil when no document matches.
func findOne[T any](ctx context.Context, m *MongoDB, name string, filter interface{}) (*T, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(name)
	var item T
	if err = collection.FindOne(ctx, filter).Decode(&item); err != nil {
		return nil, m.findError(err)
	}
	return &item, nil
}

// upsert replaces the whole document with the same id, so cleared omitempty fields are dropped too.
func (m *MongoDB) upsert(ctx context.Context, name, id string, value interface{}) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(name)
	filter := bson.D{{Key: "id", Value: id}}
	opts := options.Replace().SetUpsert(true)
	_, err = collection.ReplaceOne(ctx, filter, value, opts)
	return err
}

func (m *MongoDB) deleteById(ctx context.Context, name, id string) (bool, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return false, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(name)
	result, err := collection.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (m *MongoDB) ListUsers(ctx context.Context) ([]entity.User, error) {
	return findAll[entity.User](ctx, m, collectionUsers, bson.D{}, options.Find().SetLimit(listLimit))
}

func (m *MongoDB) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return findOne[entity.User](ctx, m, collectionUsers, bson.D{{Key: "id", Value: id}})
}

func (m *MongoDB) GetUserByTelegramId(ctx context.Context, telegramId int64) (*entity.User, error) {
	return findOne[entity.User](ctx, m, collectionUsers, bson.D{{Key: "telegram_id", Value: telegramId}})
}

func (m *MongoDB) SaveUser(ctx context.Context, user *entity.User) error {
	return m.upsert(ctx, collectionUsers, user.ID, user)
}

func (m *MongoDB) DeleteUser(ctx context.Context, id string) (bool, error) {
	return m.deleteById(ctx, collectionUsers, id)
}

// IncCredits applies delta only while the resulting balance stays non-negative.
func (m *MongoDB) IncCredits(ctx context.Context, id string, delta int) (*entity.User, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{Key: "id", Value: id}, {Key: "credits", Value: bson.D{{Key: "$gte", Value: -delta}}}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "credits", Value: delta}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user entity.User
	if err = collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongodb update: %w", err)
	}
	return &user, nil
}

func (m *MongoDB) ListLicenses(ctx context.Context) ([]entity.License, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(listLimit)
	return findAll[entity.License](ctx, m, collectionLicenses, bson.D{}, opts)
}

func (m *MongoDB) GetLicenseByKey(ctx context.Context, key string) (*entity.License, error) {
	return findOne[entity.License](ctx, m, collectionLicenses, bson.D{{Key: "license_key", Value: key}})
}

func (m *MongoDB) InsertLicenses(ctx context.Context, licenses []entity.License) error {
	if len(licenses) == 0 {
		return nil
	}
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	docs := make([]interface{}, len(licenses))
	for i := range licenses {
		docs[i] = licenses[i]
	}
	collection := connection.Database(m.database).Collection(collectionLicenses)
	_, err = collection.InsertMany(ctx, docs)
	return err
}

func (m *MongoDB) SaveLicense(ctx context.Context, license *entity.License) error {
	return m.upsert(ctx, collectionLicenses, license.ID, license)
}

func (m *MongoDB) ListTickets(ctx context.Context) ([]entity.Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(listLimit)
	return findAll[entity.Ticket](ctx, m, collectionTickets, bson.D{}, opts)
}

func (m *MongoDB) GetTicket(ctx context.Context, id string) (*entity.Ticket, error) {
	return findOne[entity.Ticket](ctx, m, collectionTickets, bson.D{{Key: "id", Value: id}})
}

func (m *MongoDB) SaveTicket(ctx context.Context, ticket *entity.Ticket) error {
	return m.upsert(ctx, collectionTickets, ticket.ID, ticket)
}

func (m *MongoDB) DeleteTicket(ctx context.Context, id string) (bool, error) {
	return m.deleteById(ctx, collectionTickets, id)
}

func (m *MongoDB) ListActivities(ctx context.Context, limit int) ([]entity.ActivityLogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))
	return findAll[entity.ActivityLogEntry](ctx, m, collectionActivities, bson.D{}, opts)
}

func (m *MongoDB) AddActivity(ctx context.Context, entry *entity.ActivityLogEntry) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionActivities)
	_, err = collection.InsertOne(ctx, entry)
	return err
}

func (m *MongoDB) ListExecutions(ctx context.Context) ([]entity.ExecutionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "execution_time", Value: -1}}).SetLimit(listLimit)
	return findAll[entity.ExecutionRecord](ctx, m, collectionExecutions, bson.D{}, opts)
}

func (m *MongoDB) ClearLogs(ctx context.Context, kind entity.LogKind) (int64, error) {
	name := collectionActivities
	if kind == entity.LogExecutions {
		name = collectionExecutions
	}
	connection, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(name)
	result, err := collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (m *MongoDB) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return findAll[entity.Account](ctx, m, collectionAccounts, bson.D{}, options.Find().SetLimit(listLimit))
}

func (m *MongoDB) SaveAccount(ctx context.Context, account *entity.Account) error {
	return m.upsert(ctx, collectionAccounts, account.ID, account)
}

package database

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"tfabot/entity"
	"tfabot/internal/config"
)

const collectionUsers = "users"

// userDocument is how one user record lands in the users collection.
type userDocument struct {
	UserID            string `bson:"_id"`
	entity.UserRecord `bson:",inline"`
}

// MongoDB is the alternative storage backend for deployments that want the
// store in a real database instead of a flat file. It keeps the same
// load-all/save-all contract; connections are opened per call.
type MongoDB struct {
	ctx           context.Context
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
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

// Load reads every user document, sorted by id so iteration order is
// deterministic within a single load.
func (m *MongoDB) Load() (*entity.Store, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := collection.Find(m.ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	defer cursor.Close(m.ctx)

	var docs []userDocument
	if err = cursor.All(m.ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb decode: %w", err)
	}

	store := entity.NewStore()
	for _, doc := range docs {
		record := doc.UserRecord
		store.Put(doc.UserID, &record)
	}
	return store, nil
}

// Save upserts every record in the store. User records are never removed,
// so there is no delete pass.
func (m *MongoDB) Save(store *entity.Store) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	opts := options.Update().SetUpsert(true)
	for _, id := range store.UserIDs() {
		record, ok := store.Get(id)
		if !ok {
			continue
		}
		filter := bson.D{{Key: "_id", Value: id}}
		update := bson.D{{Key: "$set", Value: record}}
		if _, err = collection.UpdateOne(m.ctx, filter, update, opts); err != nil {
			return fmt.Errorf("mongodb upsert %s: %w", id, err)
		}
	}
	return nil
}

package repositories

import (
	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// DatabaseStore is the Store backed by PostgreSQL (users, conversations,
// participants, messages) and MongoDB (activity log).
type DatabaseStore struct {
	*PostgresUserRepository
	*PostgresConversationRepository
	*PostgresMessageRepository
	*MongoActivityRepository
}

var _ Store = (*DatabaseStore)(nil)

// NewDatabaseStore wires the per-entity repositories into one Store.
func NewDatabaseStore(pgdb *gorm.DB, mgdb *mongo.Database) *DatabaseStore {
	return &DatabaseStore{
		PostgresUserRepository:         NewPostgresUserRepository(pgdb),
		PostgresConversationRepository: NewPostgresConversationRepository(pgdb),
		PostgresMessageRepository:      NewPostgresMessageRepository(pgdb),
		MongoActivityRepository:        NewMongoActivityRepository(mgdb),
	}
}

// Migrate creates or updates the relational tables.
func Migrate(pgdb *gorm.DB) error {
	return pgdb.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	)
}

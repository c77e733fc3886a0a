package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// UsernameIndex is the GSI the resolver queries instead of scanning the table.
const UsernameIndex = "username-index"

// DynamoAPI is the subset of the DynamoDB client used by this repository.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type userRecord struct {
	ID         string    `dynamodbav:"id"`
	Username   string    `dynamodbav:"username"`
	SecretHash []byte    `dynamodbav:"secret_hash"`
	Salt       []byte    `dynamodbav:"salt"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
}

func (rec *userRecord) toModel() *models.User {
	return &models.User{
		ID:         rec.ID,
		Username:   rec.Username,
		SecretHash: rec.SecretHash,
		Salt:       rec.Salt,
		CreatedAt:  rec.CreatedAt,
	}
}

// DynamoRepository implements user storage over a DynamoDB table keyed by id,
// with a GSI on username for credential lookups.
type DynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	// DynamoDB cannot enforce uniqueness on a non-key attribute; a best-effort
	// pre-check keeps registration honest, and the resolver treats any surviving
	// duplicate as a denial.
	if _, err := r.GetByUsername(ctx, user.Username); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(&userRecord{
		ID:         user.ID,
		Username:   user.Username,
		SecretHash: user.SecretHash,
		Salt:       user.Salt,
		CreatedAt:  user.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("put user: %w", err)
	}

	return user, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	var rec userRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return rec.toModel(), nil
}

// GetByUsername queries the username GSI. Anything but exactly one match is
// reported as not found.
func (r *DynamoRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(UsernameIndex),
		KeyConditionExpression:    aws.String("username = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: username}},
	})
	if err != nil {
		return nil, fmt.Errorf("query username index: %w", err)
	}
	if len(out.Items) != 1 {
		return nil, common.ErrorNotFound
	}

	var rec userRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return rec.toModel(), nil
}

func (r *DynamoRepository) List(ctx context.Context) ([]*models.User, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	var recs []userRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}

	result := make([]*models.User, 0, len(recs))
	for i := range recs {
		result = append(result, recs[i].toModel())
	}
	return result, nil
}

func (r *DynamoRepository) Update(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(&userRecord{
		ID:         user.ID,
		Username:   user.Username,
		SecretHash: user.SecretHash,
		Salt:       user.Salt,
		CreatedAt:  user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (r *DynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

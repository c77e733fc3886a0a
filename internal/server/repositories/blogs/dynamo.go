package blogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// DynamoAPI is the subset of the DynamoDB client used by this repository.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type blogRecord struct {
	ID          string   `dynamodbav:"id"`
	OwnerID     string   `dynamodbav:"owner_id"`
	Title       string   `dynamodbav:"title"`
	Category    string   `dynamodbav:"category"`
	Description string   `dynamodbav:"description"`
	Subscribers []string `dynamodbav:"subscribers,stringset,omitempty"`
	Version     int64    `dynamodbav:"version"`
}

func (rec *blogRecord) toModel() *models.Blog {
	return &models.Blog{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Title:       rec.Title,
		Category:    rec.Category,
		Description: rec.Description,
		Subscribers: rec.Subscribers,
		Version:     rec.Version,
	}
}

// DynamoRepository implements blog storage over a DynamoDB table keyed by id.
// Subscribers are a native string set, so ADD is atomic and idempotent; field
// edits ride on a version condition expression.
type DynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (r *DynamoRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	blog.Subscribers = nil
	blog.Version = 1

	item, err := attributevalue.MarshalMap(&blogRecord{
		ID:          blog.ID,
		OwnerID:     blog.OwnerID,
		Title:       blog.Title,
		Category:    blog.Category,
		Description: blog.Description,
		Version:     blog.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal blog: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("put blog: %w", err)
	}

	return blog, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	var rec blogRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal blog: %w", err)
	}
	return rec.toModel(), nil
}

func (r *DynamoRepository) List(ctx context.Context) ([]*models.Blog, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	if err != nil {
		return nil, fmt.Errorf("scan blogs: %w", err)
	}

	var recs []blogRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal blogs: %w", err)
	}

	result := make([]*models.Blog, 0, len(recs))
	for i := range recs {
		result = append(result, recs[i].toModel())
	}
	return result, nil
}

// UpdateFields edits the content fields behind a version condition. A failed
// condition means the blog vanished or a concurrent change won the race.
func (r *DynamoRepository) UpdateFields(ctx context.Context, blog *models.Blog, expectedVersion int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: blog.ID}},
		UpdateExpression:    aws.String("SET title = :t, category = :c, description = :d, version = version + :one"),
		ConditionExpression: aws.String("version = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   &types.AttributeValueMemberS{Value: blog.Title},
			":c":   &types.AttributeValueMemberS{Value: blog.Category},
			":d":   &types.AttributeValueMemberS{Value: blog.Description},
			":v":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return common.ErrVersionConflict
		}
		return fmt.Errorf("update blog: %w", err)
	}
	return nil
}

// AddSubscriber uses the native set ADD, which is atomic and idempotent. The
// condition keeps the owner out of the set and fails for missing blogs.
func (r *DynamoRepository) AddSubscriber(ctx context.Context, blogID, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: blogID}},
		UpdateExpression:    aws.String("ADD subscribers :u"),
		ConditionExpression: aws.String("attribute_exists(id) AND owner_id <> :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u":   &types.AttributeValueMemberSS{Value: []string{userID}},
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			// Missing blog or owner self-subscription; only the former is an error.
			if _, getErr := r.GetByID(ctx, blogID); getErr != nil {
				return getErr
			}
			return nil
		}
		return fmt.Errorf("add subscriber: %w", err)
	}
	return nil
}

func (r *DynamoRepository) RemoveSubscriber(ctx context.Context, blogID, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: blogID}},
		UpdateExpression:    aws.String("DELETE subscribers :u"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("remove subscriber: %w", err)
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
		if isConditionalCheckFailed(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

package posts

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

// BlogIndex is the GSI used for listing a blog's posts without a table scan.
const BlogIndex = "blog-index"

// DynamoAPI is the subset of the DynamoDB client used by this repository.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type postRecord struct {
	ID      string `dynamodbav:"id"`
	BlogID  string `dynamodbav:"blog_id"`
	Title   string `dynamodbav:"title"`
	Content string `dynamodbav:"content"`
}

func (rec *postRecord) toModel() *models.Post {
	return &models.Post{ID: rec.ID, BlogID: rec.BlogID, Title: rec.Title, Content: rec.Content}
}

// DynamoRepository implements post storage over a DynamoDB table keyed by id,
// with a GSI on blog_id for per-blog listings.
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

func (r *DynamoRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	item, err := attributevalue.MarshalMap(&postRecord{
		ID:      post.ID,
		BlogID:  post.BlogID,
		Title:   post.Title,
		Content: post.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
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
		return nil, fmt.Errorf("put post: %w", err)
	}

	return post, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	var rec postRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal post: %w", err)
	}
	return rec.toModel(), nil
}

func (r *DynamoRepository) ListByBlog(ctx context.Context, blogID string) ([]*models.Post, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(BlogIndex),
		KeyConditionExpression:    aws.String("blog_id = :b"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":b": &types.AttributeValueMemberS{Value: blogID}},
	})
	if err != nil {
		return nil, fmt.Errorf("query blog index: %w", err)
	}

	var recs []postRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal posts: %w", err)
	}

	result := make([]*models.Post, 0, len(recs))
	for i := range recs {
		result = append(result, recs[i].toModel())
	}
	return result, nil
}

func (r *DynamoRepository) Update(ctx context.Context, post *models.Post) error {
	item, err := attributevalue.MarshalMap(&postRecord{
		ID:      post.ID,
		BlogID:  post.BlogID,
		Title:   post.Title,
		Content: post.Content,
	})
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("put post: %w", err)
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
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

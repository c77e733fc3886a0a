package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	sc "github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newDynamoClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
		return dynamodb.NewFromConfig(cfg, optFns...)
	}
)

// DynamoRepositoryManager vends DynamoDB-backed repository implementations.
// With an endpoint override it targets local stacks (dynamodb-local,
// localstack) using static credentials.
type DynamoRepositoryManager struct {
	client *dynamodb.Client
	config *sc.Config
	users  *users.DynamoRepository
	blogs  *blogs.DynamoRepository
	posts  *posts.DynamoRepository
}

func NewDynamoRepositoryManager(ctx context.Context, cfg *sc.Config) (*DynamoRepositoryManager, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newDynamoClientFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSBaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSBaseEndpoint)
		}
	})

	return &DynamoRepositoryManager{
		client: client,
		config: cfg,
		users:  users.NewDynamoRepository(client, cfg.UserTable),
		blogs:  blogs.NewDynamoRepository(client, cfg.BlogTable),
		posts:  posts.NewDynamoRepository(client, cfg.PostTable),
	}, nil
}

// Bootstrap creates the three tables and their GSIs if they do not exist yet.
// Against managed AWS the tables are usually provisioned out of band and this
// becomes a no-op.
func (m *DynamoRepositoryManager) Bootstrap(ctx context.Context) error {
	tables := []struct {
		name string
		gsi  *types.GlobalSecondaryIndex
	}{
		{name: m.config.UserTable, gsi: simpleIndex(users.UsernameIndex, "username")},
		{name: m.config.BlogTable},
		{name: m.config.PostTable, gsi: simpleIndex(posts.BlogIndex, "blog_id")},
	}

	for _, t := range tables {
		if err := m.ensureTable(ctx, t.name, t.gsi); err != nil {
			return err
		}
	}
	return nil
}

func simpleIndex(name, key string) *types.GlobalSecondaryIndex {
	return &types.GlobalSecondaryIndex{
		IndexName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func (m *DynamoRepositoryManager) ensureTable(ctx context.Context, name string, gsi *types.GlobalSecondaryIndex) error {
	_, err := m.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err == nil {
		return nil
	}
	var nf *types.ResourceNotFoundException
	if !errors.As(err, &nf) {
		return fmt.Errorf("describe table %s: %w", name, err)
	}

	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
	}
	if gsi != nil {
		in.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{*gsi}
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: gsi.KeySchema[0].AttributeName,
			AttributeType: types.ScalarAttributeTypeS,
		})
	}

	if _, err := m.client.CreateTable(ctx, in); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

func (m *DynamoRepositoryManager) Users() users.Repository { return m.users }
func (m *DynamoRepositoryManager) Blogs() blogs.Repository { return m.blogs }
func (m *DynamoRepositoryManager) Posts() posts.Repository { return m.posts }

func (m *DynamoRepositoryManager) Close() error { return nil }

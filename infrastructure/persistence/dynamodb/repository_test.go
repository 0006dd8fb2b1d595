package dynamodb

import (
	"context"
	"strings"
	"sync"
	"testing"

	"connecting-party-manager/domain/core/aggregates"
	"connecting-party-manager/domain/core/valueobjects"
	"connecting-party-manager/domain/events"
	"connecting-party-manager/infrastructure/persistence/dynamodb/mocks"
	pkgerrors "connecting-party-manager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testTable = "cpm-test"

type repositories struct {
	client        *mocks.MemoryClient
	teams         *ProductTeamRepository
	products      *ProductRepository
	devices       *DeviceRepository
	referenceData *DeviceReferenceDataRepository
}

func newRepositories(t *testing.T, opts ...Option) repositories {
	t.Helper()
	client := mocks.NewMemoryClient()
	logger := zaptest.NewLogger(t)
	return repositories{
		client:        client,
		teams:         NewProductTeamRepository(client, testTable, logger, opts...),
		products:      NewProductRepository(client, testTable, logger, opts...),
		devices:       NewDeviceRepository(client, testTable, logger, opts...),
		referenceData: NewDeviceReferenceDataRepository(client, testTable, logger, opts...),
	}
}

// seedProduct writes a team and one of its products
func seedProduct(t *testing.T, repos repositories) (*aggregates.ProductTeam, *aggregates.Product) {
	t.Helper()
	ctx := context.Background()
	team, err := aggregates.NewProductTeam("Team A", "AAA")
	require.NoError(t, err)
	product, err := team.CreateEprProduct("P")
	require.NoError(t, err)
	require.NoError(t, repos.teams.Write(ctx, team))
	require.NoError(t, repos.products.Write(ctx, product))
	return team, product
}

func mustTag(t *testing.T, components map[string]string) valueobjects.DeviceTag {
	t.Helper()
	tag, err := valueobjects.DeviceTagFromMap(components)
	require.NoError(t, err)
	return tag
}

func TestDeviceEndToEnd(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeProductID, "P.XXX-YYY")
	require.NoError(t, err)

	duplicate := *device
	require.NoError(t, repos.devices.Write(ctx, device))
	assert.Empty(t, device.GetUncommittedEvents())
	assert.Len(t, device.CommittedEvents(), 2)

	read, err := repos.devices.Read(ctx, team.ID(), product.ID(), "P.XXX-YYY")
	require.NoError(t, err)
	assert.Equal(t, device.State(), read.State())

	err = repos.devices.Write(ctx, &duplicate)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
}

func TestRoundTripByIDAndEveryKey(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentProd)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeProductID, "P.XXX-YYY")
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeAccreditedSystemID, "123456789012")
	require.NoError(t, err)
	_, err = device.AddTag(mustTag(t, map[string]string{"nhs_mhs_party_key": "AAA-123456"}))
	require.NoError(t, err)
	_, err = device.AddDeviceReferenceDataID(valueobjects.NewID())
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	for _, id := range []string{device.ID(), "P.XXX-YYY", "123456789012"} {
		t.Run(id, func(t *testing.T) {
			read, err := repos.devices.Read(ctx, team.ID(), product.ID(), id)
			require.NoError(t, err)
			assert.Equal(t, device.State(), read.State())
		})
	}

	readTeam, err := repos.teams.Read(ctx, team.ID())
	require.NoError(t, err)
	assert.Equal(t, team.State(), readTeam.State())

	readProduct, err := repos.products.Read(ctx, team.ID(), string(product.ID()))
	require.NoError(t, err)
	assert.Equal(t, product.State(), readProduct.State())
}

func TestReadByAlias(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)

	aliasKey, err := valueobjects.NewProductTeamKey(valueobjects.KeyTypeProductTeamIDAlias, "team-alias")
	require.NoError(t, err)
	team, err := aggregates.NewProductTeam("Team A", "AAA", aggregates.WithProductTeamKeys(aliasKey))
	require.NoError(t, err)
	require.NoError(t, repos.teams.Write(ctx, team))

	partyKey, err := valueobjects.NewProductKey(valueobjects.KeyTypePartyKey, "AAA-123456")
	require.NoError(t, err)
	product, err := team.CreateEprProduct("P", aggregates.WithProductKeys(partyKey))
	require.NoError(t, err)
	require.NoError(t, repos.products.Write(ctx, product))

	byAlias, err := repos.teams.Read(ctx, "team-alias")
	require.NoError(t, err)
	assert.Equal(t, team.ID(), byAlias.ID())

	byPartyKey, err := repos.products.Read(ctx, team.ID(), "AAA-123456")
	require.NoError(t, err)
	assert.Equal(t, product.ID(), byPartyKey.ID())

	_, err = repos.teams.Read(ctx, "unknown-alias")
	assert.True(t, pkgerrors.IsItemNotFound(err))
}

func TestReadByKeyShapedLikeID(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	cpaID := valueobjects.NewID()
	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeCpaID, cpaID)
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	for _, id := range []string{device.ID(), cpaID} {
		read, err := repos.devices.Read(ctx, team.ID(), product.ID(), id)
		require.NoError(t, err, id)
		assert.Equal(t, device.State(), read.State())
	}

	aliasValue := valueobjects.NewID()
	alias, err := valueobjects.NewProductTeamKey(valueobjects.KeyTypeProductTeamIDAlias, aliasValue)
	require.NoError(t, err)
	aliased, err := aggregates.NewProductTeam("Team B", "BBB", aggregates.WithProductTeamKeys(alias))
	require.NoError(t, err)
	require.NoError(t, repos.teams.Write(ctx, aliased))

	byAlias, err := repos.teams.Read(ctx, aliasValue)
	require.NoError(t, err)
	assert.Equal(t, aliased.ID(), byAlias.ID())

	missing := valueobjects.NewID()
	_, err = repos.devices.Read(ctx, team.ID(), product.ID(), missing)
	require.True(t, pkgerrors.IsItemNotFound(err))
	assert.Equal(t, TableKeyDevice.Key(missing), pkgerrors.GetAppError(err).Details["sk"])
}

func TestKeyValueSharedAcrossTypesIsRejectedBeforeWrite(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeProductID, "P.XXX-YYY")
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeCpaID, "P.XXX-YYY")
	require.True(t, pkgerrors.IsDuplicate(err))

	require.NoError(t, repos.devices.Write(ctx, device))
	assert.Empty(t, device.GetUncommittedEvents())

	read, err := repos.devices.Read(ctx, team.ID(), product.ID(), "P.XXX-YYY")
	require.NoError(t, err)
	assert.Equal(t, []valueobjects.Key{{KeyType: valueobjects.KeyTypeProductID, KeyValue: "P.XXX-YYY"}}, read.Keys())
}

func TestDeleteAndReAddKeyInOneWrite(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)
	partition := productChildPartition(team.ID(), string(product.ID()))

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeCpaID, "CPA-1")
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))
	repos.client.TransactCalls = nil

	_, err = device.DeleteKey(valueobjects.KeyTypeCpaID, "CPA-1")
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeCpaID, "CPA-1")
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	// the delete and the re-create of the alias row land in separate, ordered transactions
	assert.Greater(t, len(repos.client.TransactCalls), 1)
	_, ok := repos.client.Get(partition, TableKeyDeviceAlias.Key("CPA-1"))
	assert.True(t, ok)

	read, err := repos.devices.Read(ctx, team.ID(), product.ID(), "CPA-1")
	require.NoError(t, err)
	assert.Equal(t, device.State(), read.State())
}

func TestSearchReturnsOnlyActiveRoots(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	var active []*aggregates.Device
	for _, name := range []string{"first", "second"} {
		device, err := product.CreateDevice(name, valueobjects.EnvironmentDev)
		require.NoError(t, err)
		_, err = device.AddKey(valueobjects.KeyTypeAccreditedSystemID, map[string]string{"first": "1", "second": "2"}[name])
		require.NoError(t, err)
		_, err = device.AddTag(mustTag(t, map[string]string{"name": name}))
		require.NoError(t, err)
		require.NoError(t, repos.devices.Write(ctx, device))
		active = append(active, device)
	}

	deleted, err := product.CreateDevice("deleted", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = deleted.Delete()
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, deleted))

	referenceData, err := product.CreateDeviceReferenceData("ref", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	require.NoError(t, repos.referenceData.Write(ctx, referenceData))

	found, err := repos.devices.Search(ctx, team.ID(), product.ID())
	require.NoError(t, err)
	require.Len(t, found, 2)
	ids := []string{found[0].ID(), found[1].ID()}
	assert.ElementsMatch(t, []string{active[0].ID(), active[1].ID()}, ids)

	refs, err := repos.referenceData.Search(ctx, team.ID(), product.ID())
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, referenceData.ID(), refs[0].ID())
}

func TestSearchFollowsPages(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		device, err := product.CreateDevice(name, valueobjects.EnvironmentDev)
		require.NoError(t, err)
		require.NoError(t, repos.devices.Write(ctx, device))
	}
	repos.client.PageSize = 2

	found, err := repos.devices.Search(ctx, team.ID(), product.ID())
	require.NoError(t, err)
	assert.Len(t, found, 5)
	assert.Len(t, repos.client.QueryCalls, 3)
}

func TestAtMostOneCreate(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	_, product := seedProduct(t, repos)

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		attempt := *device
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repos.devices.Write(ctx, &attempt)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, pkgerrors.IsAlreadyExists(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
}

func TestDeviceMutationsProjectRows(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)
	partition := productChildPartition(team.ID(), string(product.ID()))

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeAccreditedSystemID, "123456789012")
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	red := mustTag(t, map[string]string{"colour": "red"})
	blue := mustTag(t, map[string]string{"colour": "blue"})
	_, err = device.AddTags(red, blue)
	require.NoError(t, err)
	_, err = device.Update("P-MHS renamed")
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	byTag, err := repos.devices.QueryByTag(ctx, red)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "P-MHS renamed", byTag[0].Name())

	byKey, err := repos.devices.Read(ctx, team.ID(), product.ID(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "P-MHS renamed", byKey.Name())

	_, err = device.DeleteKey(valueobjects.KeyTypeAccreditedSystemID, "123456789012")
	require.NoError(t, err)
	_, err = device.ClearTags()
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	_, ok := repos.client.Get(partition, TableKeyDeviceAlias.Key("123456789012"))
	assert.False(t, ok)
	byTag, err = repos.devices.QueryByTag(ctx, red)
	require.NoError(t, err)
	assert.Empty(t, byTag)
	assert.Equal(t, []string{partition + "|" + TableKeyDevice.Key(device.ID())}, deviceRowKeys(repos.client))
}

// deviceRowKeys lists the root, alias and tag rows of every device in the table
func deviceRowKeys(client *mocks.MemoryClient) []string {
	var keys []string
	for _, k := range client.Keys() {
		if strings.Contains(k, "|D#") || strings.Contains(k, "|DK#") {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestSoftDeleteKeepsInactiveRoot(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeProductID, "P.XXX-YYY")
	require.NoError(t, err)
	red := mustTag(t, map[string]string{"colour": "red"})
	_, err = device.AddTag(red)
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	_, err = device.Delete()
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))

	partition := productChildPartition(team.ID(), string(product.ID()))
	root, ok := repos.client.Get(partition, TableKeyDevice.Key(device.ID()))
	require.True(t, ok)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "inactive"}, root["status"])
	_, ok = repos.client.Get(partition, TableKeyDeviceAlias.Key("P.XXX-YYY"))
	assert.False(t, ok)
	_, ok = repos.client.Get(deviceTagPartition(string(red)), TableKeyDevice.Key(device.ID()))
	assert.False(t, ok)

	for _, id := range []string{device.ID(), "P.XXX-YYY"} {
		_, err := repos.devices.Read(ctx, team.ID(), product.ID(), id)
		assert.True(t, pkgerrors.IsItemNotFound(err), "read %s: %v", id, err)
	}
}

func TestHardDeleteRemovesEveryRow(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	_, product := seedProduct(t, repos)
	before := repos.client.Len()

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeProductID, "P.XXX-YYY")
	require.NoError(t, err)
	_, err = device.AddTag(mustTag(t, map[string]string{"colour": "red"}))
	require.NoError(t, err)
	require.NoError(t, repos.devices.Write(ctx, device))
	require.Equal(t, before+3, repos.client.Len())

	device.HardDelete()
	require.NoError(t, repos.devices.Write(ctx, device))
	assert.Equal(t, before, repos.client.Len())
}

func TestWriteRespectsMaxTransactItems(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t, WithMaxTransactItems(2))
	_, product := seedProduct(t, repos)
	repos.client.TransactCalls = nil

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	for _, colour := range []string{"red", "green", "blue"} {
		_, err = device.AddTag(mustTag(t, map[string]string{"colour": colour}))
		require.NoError(t, err)
	}
	require.NoError(t, repos.devices.Write(ctx, device))

	for _, call := range repos.client.TransactCalls {
		assert.LessOrEqual(t, len(call.TransactItems), 2)
	}
	assert.Greater(t, len(repos.client.TransactCalls), 1)
}

func TestReferenceDataLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	referenceData, err := product.CreateDeviceReferenceData("ref", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	require.NoError(t, repos.referenceData.Write(ctx, referenceData))

	read, err := repos.referenceData.Read(ctx, team.ID(), product.ID(), referenceData.ID())
	require.NoError(t, err)
	assert.Equal(t, referenceData.State(), read.State())

	_, err = referenceData.Delete()
	require.NoError(t, err)
	require.NoError(t, repos.referenceData.Write(ctx, referenceData))

	_, err = repos.referenceData.Read(ctx, team.ID(), product.ID(), referenceData.ID())
	assert.True(t, pkgerrors.IsItemNotFound(err))
}

func TestProductTeamDeletionGuard(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)

	owned, err := repos.products.Search(ctx, team.ID())
	require.NoError(t, err)
	require.Len(t, owned, 1)

	_, err = team.Delete([]valueobjects.ProductID{owned[0].ID()})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), string(product.ID()))

	_, err = product.Delete()
	require.NoError(t, err)
	require.NoError(t, repos.products.Write(ctx, product))

	owned, err = repos.products.Search(ctx, team.ID())
	require.NoError(t, err)
	require.Empty(t, owned)

	_, err = team.Delete(nil)
	require.NoError(t, err)
	require.NoError(t, repos.teams.Write(ctx, team))

	teams, err := repos.teams.Search(ctx)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

type pagedClient struct {
	*mocks.MemoryClient
}

func (c pagedClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	out, err := c.MemoryClient.Query(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	out.LastEvaluatedKey = map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "PT"},
		"sk": &types.AttributeValueMemberS{Value: "PT#next"},
	}
	return out, nil
}

func TestReadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("more than one page", func(t *testing.T) {
		repo := NewProductTeamRepository(pagedClient{mocks.NewMemoryClient()}, testTable, zaptest.NewLogger(t))
		_, err := repo.Read(ctx, valueobjects.NewID())
		assert.True(t, pkgerrors.IsTooManyResults(err))
	})

	t.Run("missing item", func(t *testing.T) {
		repo := NewProductTeamRepository(mocks.NewMemoryClient(), testTable, zaptest.NewLogger(t))
		id := valueobjects.NewID()
		_, err := repo.Read(ctx, id)
		require.True(t, pkgerrors.IsItemNotFound(err))
		assert.Equal(t, "PT#"+id, pkgerrors.GetAppError(err).Details["sk"])
	})
}

func TestUnhandledTransaction(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMemoryClient()
	client.SetError("TransactWriteItems", &smithy.GenericAPIError{Code: "InternalServerError", Message: "boom"})
	repo := NewProductTeamRepository(client, testTable, zaptest.NewLogger(t))

	team, err := aggregates.NewProductTeam("Team A", "AAA")
	require.NoError(t, err)
	err = repo.Write(ctx, team)

	require.True(t, pkgerrors.IsUnhandledTransaction(err))
	appErr := pkgerrors.GetAppError(err)
	assert.Contains(t, appErr.Message, "boom")
	assert.Len(t, appErr.Details["statements"], 1)
	assert.Len(t, team.GetUncommittedEvents(), 1, "events stay pending when the write fails")
}

// failingTransactClient fails the failOn-th transaction and passes every other call through
type failingTransactClient struct {
	*mocks.MemoryClient
	failOn int
	calls  int
}

func (c *failingTransactClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	c.calls++
	if c.calls == c.failOn {
		return nil, &smithy.GenericAPIError{Code: "InternalServerError", Message: "boom"}
	}
	return c.MemoryClient.TransactWriteItems(ctx, params, optFns...)
}

func TestFailedLaterBatchKeepsEarlierBatches(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	team, product := seedProduct(t, repos)
	partition := productChildPartition(team.ID(), string(product.ID()))

	client := &failingTransactClient{MemoryClient: repos.client, failOn: 2}
	devices := NewDeviceRepository(client, testTable, zaptest.NewLogger(t))

	device, err := product.CreateDevice("P-MHS", valueobjects.EnvironmentDev)
	require.NoError(t, err)
	_, err = device.AddKey(valueobjects.KeyTypeCpaID, "CPA-1")
	require.NoError(t, err)

	err = devices.Write(ctx, device)
	require.True(t, pkgerrors.IsUnhandledTransaction(err))
	assert.Equal(t, 2, client.calls)
	assert.Len(t, device.GetUncommittedEvents(), 2, "no event is marked committed unless every batch commits")

	// the first batch created the root and alias rows; the root rewrite of the second never ran
	_, ok := repos.client.Get(partition, TableKeyDevice.Key(device.ID()))
	assert.True(t, ok)
	_, ok = repos.client.Get(partition, TableKeyDeviceAlias.Key("CPA-1"))
	assert.True(t, ok)
	byID, err := devices.Read(ctx, team.ID(), product.ID(), device.ID())
	require.NoError(t, err)
	assert.Empty(t, byID.Keys())

	// replaying the same pending events collides with the committed root row
	err = devices.Write(ctx, device)
	assert.True(t, pkgerrors.IsAlreadyExists(err))

	// recovery starts from the newest stored state and rewrites every row
	stored, err := devices.Read(ctx, team.ID(), product.ID(), "CPA-1")
	require.NoError(t, err)
	_, err = stored.Update("P-MHS recovered")
	require.NoError(t, err)
	require.NoError(t, devices.Write(ctx, stored))

	byID, err = devices.Read(ctx, team.ID(), product.ID(), device.ID())
	require.NoError(t, err)
	assert.Equal(t, stored.State(), byID.State())
	assert.Equal(t, []valueobjects.Key{{KeyType: valueobjects.KeyTypeCpaID, KeyValue: "CPA-1"}}, byID.Keys())
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, committed []events.Event) error {
	p.published = append(p.published, committed...)
	return nil
}

func TestWritePublishesCommittedEvents(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	repos := newRepositories(t, WithPublisher(publisher))

	team, err := aggregates.NewProductTeam("Team A", "AAA")
	require.NoError(t, err)
	require.NoError(t, repos.teams.Write(ctx, team))

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.TypeProductTeamCreated, publisher.published[0].GetEventType())
}

func TestEveryEventTypeHasAHandler(t *testing.T) {
	client := mocks.NewMemoryClient()
	assert.NotPanics(t, func() {
		NewProductTeamRepository(client, testTable, nil)
		NewProductRepository(client, testTable, nil)
		NewDeviceRepository(client, testTable, nil)
		NewDeviceReferenceDataRepository(client, testTable, nil)
	})

	assert.Panics(t, func() {
		newRepository(client, testTable, nil, repositoryConfig[*aggregates.ProductTeam]{
			entity:     "ProductTeam",
			eventTypes: events.ProductTeamEventTypes,
			handlers: map[string]EventHandler{
				events.TypeProductTeamCreated: handle(handleProductTeamCreated),
			},
		})
	})
}

// Copyright © 2026 The Space Place Authors

// This file is part of Space Place <https://github.com/Spaces-Place/space-place-space>.

// Space Place is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License
// as published by the Free Software Foundation,
// either version 3 of the License, or (at your option)
// any later version.

// Space Place is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with Space Place.  If not, see <http://www.gnu.org/licenses/>.

package spaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/Spaces-Place/space-place-space/entities"
	"github.com/Spaces-Place/space-place-space/events"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/Spaces-Place/space-place-space/objectstore"
	"github.com/Spaces-Place/space-place-space/tracing"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const Collection = "spaces"

// UpdateFailurePolicy selects the compensation applied when an update fails
// after the old images were removed.
type UpdateFailurePolicy string

const (
	// UpdateFailureSuspend hides the space by clearing is_operate.
	UpdateFailureSuspend UpdateFailurePolicy = "suspend"
	// UpdateFailureDelete removes the space document.
	UpdateFailureDelete UpdateFailurePolicy = "delete"
)

// EmptyResultPolicy selects how a nearby search without results is reported.
type EmptyResultPolicy string

const (
	EmptyResultError EmptyResultPolicy = "error"
	EmptyResultEmpty EmptyResultPolicy = "empty"
)

var Module = fx.Module("spaces",
	fx.Provide(
		NewMigrations,
		New,
	),
)

type Params struct {
	fx.In

	Db      *mongo.Database
	Store   objectstore.Store
	Events  *events.Publisher
	Viper   *viper.Viper
	Logger  *logging.Logger
	Tracing *tracing.Tracing
	Policy  OwnershipPolicy `optional:"true"`
	Mig     Migrations
}

type Result struct {
	fx.Out

	Manager *Manager
}

// Manager keeps space documents and their image objects consistent.
type Manager struct {
	log           *slog.Logger
	tracer        trace.Tracer
	spaces        *mongo.Collection
	store         objectstore.Store
	events        *events.Publisher
	policy        OwnershipPolicy
	updateFailure UpdateFailurePolicy
	nearbyEmpty   EmptyResultPolicy

	uploadParallelism int
}

func New(p Params) (Result, error) {
	p.Viper.SetDefault("spaces.updateFailurePolicy", string(UpdateFailureSuspend))
	p.Viper.SetDefault("spaces.nearbyEmptyResult", string(EmptyResultError))
	p.Viper.SetDefault("spaces.uploadParallelism", 1)

	updateFailure := UpdateFailurePolicy(p.Viper.GetString("spaces.updateFailurePolicy"))
	if updateFailure != UpdateFailureSuspend && updateFailure != UpdateFailureDelete {
		return Result{}, fmt.Errorf("invalid spaces.updateFailurePolicy %q", updateFailure)
	}
	nearbyEmpty := EmptyResultPolicy(p.Viper.GetString("spaces.nearbyEmptyResult"))
	if nearbyEmpty != EmptyResultError && nearbyEmpty != EmptyResultEmpty {
		return Result{}, fmt.Errorf("invalid spaces.nearbyEmptyResult %q", nearbyEmpty)
	}

	policy := p.Policy
	if policy == nil {
		policy = OwnerOnly()
	}

	return Result{
		Manager: &Manager{
			log:           p.Logger.GetLogger("spaces"),
			tracer:        p.Tracing.TracerProvider.Tracer("spaces"),
			spaces:        p.Db.Collection(Collection),
			store:         p.Store,
			events:        p.Events,
			policy:        policy,
			updateFailure: updateFailure,
			nearbyEmpty:   nearbyEmpty,

			uploadParallelism: p.Viper.GetInt("spaces.uploadParallelism"),
		},
	}, nil
}

// Create stores a new space and uploads its images. The id is returned only
// once the image list has been written to the document.
func (m *Manager) Create(ctx context.Context, ownerId string, in SpaceInput, images []ImageUpload) (primitive.ObjectID, error) {
	ctx, span := m.tracer.Start(ctx, "createSpace")
	defer span.End()

	if ownerId == "" {
		return primitive.NilObjectID, validationError("owner id is required")
	}
	if err := in.validate(); err != nil {
		return primitive.NilObjectID, err
	}
	if err := validateImages(images); err != nil {
		return primitive.NilObjectID, err
	}

	space := Space{
		OwnerId:        ownerId,
		SpaceType:      in.SpaceType,
		Name:           in.Name,
		Capacity:       in.Capacity,
		Size:           in.Size,
		UsageUnit:      in.UsageUnit,
		UnitPrice:      in.UnitPrice,
		Amenities:      dedupe(in.Amenities),
		Description:    in.Description,
		Content:        in.Content,
		Location:       in.Location,
		Images:         []Image{},
		OperatingHours: nonNil(in.OperatingHours),
		IsOperate:      true,
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}

	insertRes, err := m.spaces.InsertOne(ctx, &space)
	if err != nil {
		return primitive.NilObjectID, storeError("inserting space", err)
	}
	id := insertRes.InsertedID.(primitive.ObjectID)
	span.SetAttributes(attribute.String("space.id", id.Hex()))

	uploaded, err := m.uploadImages(ctx, ownerId, id.Hex(), images)
	if err == nil {
		proto := SpacePrototype{}
		proto.Images.Set(uploaded)
		_, err = m.spaces.UpdateByID(ctx, id, entities.SetDocument(&proto))
	}
	if err != nil {
		m.log.Error("image upload failed, removing space", "spaceId", id.Hex(), "error", err)
		_, delErr := m.spaces.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": id})
		if delErr != nil {
			m.log.Warn("unable to remove incomplete space", "spaceId", id.Hex(), "error", delErr)
		}
		return primitive.NilObjectID, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	m.log.Info("space created", "spaceId", id.Hex(), "owner", ownerId, "images", len(uploaded))
	m.events.Publish(ctx, events.SpaceCreated, id.Hex(), ownerId, nil)

	return id, nil
}

// Get returns an operating space with its image URLs.
func (m *Manager) Get(ctx context.Context, spaceId string) (*SpaceDetail, error) {
	ctx, span := m.tracer.Start(ctx, "getSpace")
	defer span.End()

	space, err := m.findOperating(ctx, spaceId)
	if err != nil {
		return nil, err
	}
	return m.toDetail(space), nil
}

// List returns a page of operating spaces in natural order.
func (m *Manager) List(ctx context.Context, q ListQuery) ([]SpaceSummary, error) {
	ctx, span := m.tracer.Start(ctx, "listSpaces")
	defer span.End()

	filter := bson.M{"is_operate": true}
	if q.SpaceType != "" {
		filter["space_type"] = q.SpaceType
	}
	if q.Sido != "" {
		filter["location.sido"] = q.Sido
	}

	opts := options.Find().SetSkip(q.Skip)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	return m.findSummaries(ctx, "listing spaces", filter, opts)
}

// Update replaces the mutable attributes and the images of a space. Input is
// validated before anything is changed.
func (m *Manager) Update(ctx context.Context, callerId string, spaceId string, in UpdateInput, images []ImageUpload) error {
	ctx, span := m.tracer.Start(ctx, "updateSpace")
	defer span.End()

	space, err := m.find(ctx, spaceId, bson.M{})
	if err != nil {
		return err
	}
	if err := m.policy.Authorize(ctx, callerId, space); err != nil {
		return fmt.Errorf("While updating space %s: %w", spaceId, err)
	}
	if err := in.validate(); err != nil {
		return err
	}
	if err := validateImages(images); err != nil {
		return err
	}

	for _, img := range space.Images {
		m.deleteObject(ctx, imageKey(space.OwnerId, space.Id.Hex(), img.Filename))
	}

	uploaded, err := m.uploadImages(ctx, space.OwnerId, space.Id.Hex(), images)
	fields := []string{}
	if err == nil {
		proto := SpacePrototype{}
		proto.Capacity.Set(in.Capacity)
		proto.UsageUnit.Set(in.UsageUnit)
		proto.UnitPrice.Set(in.UnitPrice)
		proto.Amenities.Set(dedupe(in.Amenities))
		proto.Description.Set(in.Description)
		proto.Content.Set(in.Content)
		proto.OperatingHours.Set(nonNil(in.OperatingHours))
		proto.IsOperate.Set(in.IsOperate)
		proto.Images.Set(uploaded)

		update := entities.ToBson(&proto)
		fields = slices.Sorted(maps.Keys(update))
		_, err = m.spaces.UpdateByID(ctx, space.Id, bson.M{"$set": update})
	}
	if err != nil {
		m.log.Error("space update failed", "spaceId", spaceId, "policy", m.updateFailure, "error", err)
		m.compensateUpdate(ctx, space.Id)
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	m.log.Info("space updated", "spaceId", spaceId, "images", len(uploaded))
	m.events.Publish(ctx, events.SpaceUpdated, space.Id.Hex(), space.OwnerId, fields)

	return nil
}

// Delete removes all objects of a space and then its document.
func (m *Manager) Delete(ctx context.Context, callerId string, spaceId string) error {
	ctx, span := m.tracer.Start(ctx, "deleteSpace")
	defer span.End()

	space, err := m.find(ctx, spaceId, bson.M{})
	if err != nil {
		return err
	}
	if err := m.policy.Authorize(ctx, callerId, space); err != nil {
		return fmt.Errorf("While deleting space %s: %w", spaceId, err)
	}

	keys, err := m.store.List(ctx, spacePrefix(space.OwnerId, space.Id.Hex()))
	if err != nil {
		m.log.Warn("unable to list space images", "spaceId", spaceId, "error", err)
	}
	for _, key := range keys {
		m.deleteObject(ctx, key)
	}

	_, err = m.spaces.DeleteOne(ctx, bson.M{"_id": space.Id})
	if err != nil {
		return storeError("deleting space", err)
	}

	m.log.Info("space deleted", "spaceId", spaceId, "objects", len(keys))
	m.events.Publish(ctx, events.SpaceDeleted, space.Id.Hex(), space.OwnerId, nil)

	return nil
}

// Nearby returns the operating spaces within the radius, nearest first.
func (m *Manager) Nearby(ctx context.Context, q NearbyQuery) ([]SpaceSummary, error) {
	ctx, span := m.tracer.Start(ctx, "nearbySpaces")
	defer span.End()

	if err := validateCoordinates(q.Longitude, q.Latitude); err != nil {
		return nil, err
	}
	if !(q.RadiusKm > 0) {
		return nil, validationError("radius must be positive")
	}

	filter := bson.D{
		{Key: "is_operate", Value: true},
		{Key: "location.point", Value: bson.D{
			{Key: "$nearSphere", Value: bson.D{
				{Key: "$geometry", Value: NewPoint(q.Longitude, q.Latitude)},
				{Key: "$maxDistance", Value: q.RadiusKm * 1000},
			}},
		}},
	}

	summaries, err := m.findSummaries(ctx, "searching nearby spaces", filter, options.Find())
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 && m.nearbyEmpty == EmptyResultError {
		return nil, fmt.Errorf("%w: no spaces within %v km", ErrNotFound, q.RadiusKm)
	}
	return summaries, nil
}

// Quote previews the price of booking an operating space.
func (m *Manager) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	ctx, span := m.tracer.Start(ctx, "quoteSpace")
	defer span.End()

	space, err := m.findOperating(ctx, req.SpaceId)
	if err != nil {
		return nil, err
	}
	return quote(space, req)
}

func (m *Manager) findOperating(ctx context.Context, spaceId string) (*Space, error) {
	return m.find(ctx, spaceId, bson.M{"is_operate": true})
}

func (m *Manager) find(ctx context.Context, spaceId string, filter bson.M) (*Space, error) {
	id, err := primitive.ObjectIDFromHex(spaceId)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, spaceId)
	}
	filter["_id"] = id

	space := Space{}
	err = m.spaces.FindOne(ctx, filter).Decode(&space)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, spaceId)
	}
	if err != nil {
		return nil, storeError("retrieving space", err)
	}
	return &space, nil
}

func (m *Manager) findSummaries(ctx context.Context, op string, filter any, opts *options.FindOptions) ([]SpaceSummary, error) {
	cursor, err := m.spaces.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError(op, err)
	}

	found := make([]Space, 0)
	if err := cursor.All(ctx, &found); err != nil {
		return nil, storeError(op, err)
	}

	summaries := make([]SpaceSummary, 0, len(found))
	for i := range found {
		summaries = append(summaries, m.toSummary(&found[i]))
	}
	return summaries, nil
}

func (m *Manager) uploadImages(ctx context.Context, ownerId string, spaceId string, images []ImageUpload) ([]Image, error) {
	uploaded := make([]Image, 0, len(images))
	batch := make([]objectstore.Upload, 0, len(images))
	for i, img := range images {
		ext, err := imageExtension(img.Filename)
		if err != nil {
			return nil, err
		}
		filename := imageFilename(i, ext)

		batch = append(batch, objectstore.Upload{
			Key:  imageKey(ownerId, spaceId, filename),
			Data: img.Data,
		})
		uploaded = append(uploaded, Image{
			Filename:         filename,
			OriginalFilename: img.Filename,
		})
	}

	if err := objectstore.PutAll(ctx, m.store, batch, m.uploadParallelism); err != nil {
		return nil, err
	}
	m.log.Debug("images uploaded", "spaceId", spaceId, "count", len(batch))

	return uploaded, nil
}

func (m *Manager) deleteObject(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn("unable to delete image", "key", key, "error", err)
	}
}

func (m *Manager) compensateUpdate(ctx context.Context, id primitive.ObjectID) {
	ctx = context.WithoutCancel(ctx)

	var err error
	switch m.updateFailure {
	case UpdateFailureDelete:
		_, err = m.spaces.DeleteOne(ctx, bson.M{"_id": id})
	default:
		proto := SpacePrototype{}
		proto.IsOperate.Set(false)
		_, err = m.spaces.UpdateByID(ctx, id, entities.SetDocument(&proto))
	}
	if err != nil {
		m.log.Warn("unable to compensate failed update", "spaceId", id.Hex(), "policy", m.updateFailure, "error", err)
	}
}

func (m *Manager) imageURL(space *Space, filename string) string {
	return m.store.URL(imageKey(space.OwnerId, space.Id.Hex(), filename))
}

func (m *Manager) toDetail(space *Space) *SpaceDetail {
	links := make([]ImageLink, 0, len(space.Images))
	for i, img := range space.Images {
		links = append(links, ImageLink{
			URL:              m.imageURL(space, img.Filename),
			Order:            i,
			OriginalFilename: img.OriginalFilename,
		})
	}

	return &SpaceDetail{
		SpaceId:        space.Id.Hex(),
		OwnerId:        space.OwnerId,
		SpaceType:      space.SpaceType,
		Name:           space.Name,
		Capacity:       space.Capacity,
		Size:           space.Size,
		UsageUnit:      space.UsageUnit,
		UnitPrice:      space.UnitPrice,
		Amenities:      nonNil(space.Amenities),
		Description:    space.Description,
		Content:        space.Content,
		Location:       space.Location,
		Images:         links,
		OperatingHours: nonNil(space.OperatingHours),
		IsOperate:      space.IsOperate,
		CreatedAt:      space.CreatedAt,
	}
}

func (m *Manager) toSummary(space *Space) SpaceSummary {
	thumbnail := ""
	if len(space.Images) > 0 {
		thumbnail = m.imageURL(space, space.Images[0].Filename)
	}

	return SpaceSummary{
		SpaceId:     space.Id.Hex(),
		SpaceType:   space.SpaceType,
		Name:        space.Name,
		Description: space.Description,
		UsageUnit:   space.UsageUnit,
		UnitPrice:   space.UnitPrice,
		Amenities:   nonNil(space.Amenities),
		Location:    space.Location,
		Thumbnail:   thumbnail,
	}
}

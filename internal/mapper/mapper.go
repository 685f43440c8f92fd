// Package mapper turns stored documents into typed records and back.
// Missing optional fields get defaults; a malformed required timestamp
// fails that one record.
package mapper

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// DefaultRole is shown for users whose stored role is missing or unknown
const DefaultRole = models.RoleLearner

func ToUser(doc store.Document) (models.User, error) {
	d := doc.Data
	joined, err := optionalTime(d, FieldJoinedAt, doc.CreateTime)
	if err != nil {
		return models.User{}, recordError("users", doc.ID, err)
	}
	updated, err := optionalTime(d, FieldUpdatedAt, doc.UpdateTime)
	if err != nil {
		updated = joined
	}

	role := models.UserRole(strings.ToLower(str(d, FieldRole)))
	if !role.IsValid() {
		role = DefaultRole
	}

	return models.User{
		ID:        doc.ID,
		Name:      str(d, FieldName),
		Email:     str(d, FieldEmail),
		Role:      role,
		PhotoURL:  str(d, FieldPhotoURL),
		Phone:     str(d, FieldPhone),
		Address:   str(d, FieldAddress),
		JoinedAt:  joined,
		UpdatedAt: updated,
	}, nil
}

func FromUser(u models.User) store.Data {
	data := store.Data{
		FieldName:      u.Name,
		FieldEmail:     u.Email,
		FieldRole:      string(u.Role),
		FieldPhotoURL:  u.PhotoURL,
		FieldPhone:     u.Phone,
		FieldAddress:   u.Address,
		FieldJoinedAt:  u.JoinedAt,
		FieldUpdatedAt: store.ServerTimestamp(),
	}
	if u.JoinedAt.IsZero() {
		data[FieldJoinedAt] = store.ServerTimestamp()
	}
	return data
}

func ToVideo(doc store.Document) (models.Video, error) {
	d := doc.Data
	uploaded, err := optionalTime(d, FieldUploadedAt, doc.CreateTime)
	if err != nil {
		return models.Video{}, recordError("videos", doc.ID, err)
	}

	ratings := ToRatings(d[FieldRatings])
	return models.Video{
		ID:            doc.ID,
		Title:         str(d, FieldTitle),
		Description:   str(d, FieldDescription),
		CategoryID:    str(d, FieldCategoryID),
		SubcategoryID: str(d, FieldSubcategoryID),
		UploaderID:    str(d, FieldUploaderID),
		VideoURL:      str(d, FieldVideoURL),
		ThumbnailURL:  str(d, FieldThumbnailURL),
		Views:         counter(d, FieldViews),
		LikeCount:     counter(d, FieldLikeCount),
		LikedBy:       stringList(d, FieldLikedBy),
		BookmarkedBy:  stringList(d, FieldBookmarkedBy),
		CommentsCount: counter(d, FieldCommentsCount),
		ReportsCount:  counter(d, FieldReportsCount),
		AverageRating: AverageRating(ratings),
		Ratings:       ratings,
		UploadedAt:    uploaded,
	}, nil
}

// FromVideo is the body of a newly uploaded video; engagement starts at zero
func FromVideo(v models.Video) store.Data {
	return store.Data{
		FieldTitle:         v.Title,
		FieldDescription:   v.Description,
		FieldCategoryID:    v.CategoryID,
		FieldSubcategoryID: v.SubcategoryID,
		FieldUploaderID:    v.UploaderID,
		FieldVideoURL:      v.VideoURL,
		FieldThumbnailURL:  v.ThumbnailURL,
		FieldViews:         int64(0),
		FieldLikeCount:     int64(0),
		FieldLikedBy:       []any{},
		FieldBookmarkedBy:  []any{},
		FieldCommentsCount: int64(0),
		FieldReportsCount:  int64(0),
		FieldAverageRating: float64(0),
		FieldRatings:       []any{},
		FieldUploadedAt:    store.ServerTimestamp(),
	}
}

// ToRatings reads a stored rating list. Entries without a user or with a
// non-numeric score are ignored; a later entry for the same user wins.
func ToRatings(v any) []models.Rating {
	items := objectList(map[string]any{FieldRatings: v}, FieldRatings)
	out := make([]models.Rating, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		userID := str(item, FieldRatingUserID)
		score, ok := toFloat(item[FieldRatingValue])
		if userID == "" || !ok {
			continue
		}
		if i, seen := index[userID]; seen {
			out[i].Rating = score
			continue
		}
		index[userID] = len(out)
		out = append(out, models.Rating{UserID: userID, Rating: score})
	}
	return out
}

func FromRatings(ratings []models.Rating) []any {
	out := make([]any, len(ratings))
	for i, r := range ratings {
		out[i] = map[string]any{
			FieldRatingUserID: r.UserID,
			FieldRatingValue:  r.Rating,
		}
	}
	return out
}

// UpsertRating replaces userID's entry or appends a new one
func UpsertRating(ratings []models.Rating, userID string, score float64) []models.Rating {
	out := make([]models.Rating, 0, len(ratings)+1)
	replaced := false
	for _, r := range ratings {
		if r.UserID == userID {
			r.Rating = score
			replaced = true
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, models.Rating{UserID: userID, Rating: score})
	}
	return out
}

// AverageRating is the mean of all ratings, 0 when there are none
func AverageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Rating
	}
	return sum / float64(len(ratings))
}

func ToChallenge(doc store.Document) (models.Challenge, error) {
	d := doc.Data
	created, err := optionalTime(d, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		return models.Challenge{}, recordError("challenges", doc.ID, err)
	}
	return models.Challenge{
		ID:            doc.ID,
		Title:         str(d, FieldTitle),
		Description:   str(d, FieldDescription),
		CategoryID:    str(d, FieldCategoryID),
		SubcategoryID: str(d, FieldSubcategoryID),
		Topic:         str(d, FieldTopic),
		ProblemURL:    str(d, FieldProblemURL),
		SolutionURL:   str(d, FieldSolutionURL),
		UploaderID:    str(d, FieldUploaderID),
		CreatedAt:     created,
	}, nil
}

func FromChallenge(c models.Challenge) store.Data {
	data := store.Data{
		FieldTitle:         c.Title,
		FieldDescription:   c.Description,
		FieldCategoryID:    c.CategoryID,
		FieldSubcategoryID: c.SubcategoryID,
		FieldTopic:         c.Topic,
		FieldProblemURL:    c.ProblemURL,
		FieldSolutionURL:   c.SolutionURL,
		FieldUploaderID:    c.UploaderID,
		FieldCreatedAt:     c.CreatedAt,
	}
	if c.CreatedAt.IsZero() {
		data[FieldCreatedAt] = store.ServerTimestamp()
	}
	return data
}

// ToEvent requires both dates; an event without them cannot be scheduled
func ToEvent(doc store.Document) (models.Event, error) {
	d := doc.Data
	eventDate, err := Timestamp(d[FieldEventDate])
	if err != nil {
		return models.Event{}, recordError("events", doc.ID, fmt.Errorf("%s: %w", FieldEventDate, err))
	}
	closeDate, err := Timestamp(d[FieldCloseDate])
	if err != nil {
		return models.Event{}, recordError("events", doc.ID, fmt.Errorf("%s: %w", FieldCloseDate, err))
	}
	created, err := optionalTime(d, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		created = doc.CreateTime
	}

	mode := models.EventOnline
	if strings.EqualFold(str(d, FieldMode), string(models.EventOffline)) {
		mode = models.EventOffline
	}

	return models.Event{
		ID:                    doc.ID,
		Title:                 str(d, FieldTitle),
		Description:           str(d, FieldDescription),
		ThumbnailURL:          str(d, FieldThumbnailURL),
		EventDate:             eventDate,
		RegistrationCloseDate: closeDate,
		Mode:                  mode,
		Location:              str(d, FieldLocation),
		Organizer:             str(d, FieldOrganizer),
		OwnerID:               str(d, FieldOwnerID),
		CreatedAt:             created,
	}, nil
}

func FromEvent(e models.Event) store.Data {
	data := store.Data{
		FieldTitle:        e.Title,
		FieldDescription:  e.Description,
		FieldThumbnailURL: e.ThumbnailURL,
		FieldEventDate:    e.EventDate.UTC(),
		FieldCloseDate:    e.RegistrationCloseDate.UTC(),
		FieldMode:         string(e.Mode),
		FieldLocation:     e.Location,
		FieldOrganizer:    e.Organizer,
		FieldOwnerID:      e.OwnerID,
		FieldCreatedAt:    e.CreatedAt,
	}
	if e.CreatedAt.IsZero() {
		data[FieldCreatedAt] = store.ServerTimestamp()
	}
	return data
}

func ToCategory(doc store.Document) (models.Category, error) {
	created, err := optionalTime(doc.Data, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		created = doc.CreateTime
	}
	return models.Category{
		ID:            doc.ID,
		Name:          str(doc.Data, FieldName),
		Subcategories: stringList(doc.Data, FieldSubcategories),
		CreatedAt:     created,
	}, nil
}

func FromCategory(c models.Category) store.Data {
	subs := make([]any, len(c.Subcategories))
	for i, s := range c.Subcategories {
		subs[i] = s
	}
	return store.Data{
		FieldName:          c.Name,
		FieldSubcategories: subs,
		FieldCreatedAt:     store.ServerTimestamp(),
	}
}

// ToComment reads a document of videos/{video}/comments
func ToComment(doc store.Document) (models.Comment, error) {
	created, err := optionalTime(doc.Data, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		return models.Comment{}, recordError(doc.Collection, doc.ID, err)
	}
	return models.Comment{
		ID:          doc.ID,
		VideoID:     pathSegment(doc.Collection, 1),
		Text:        str(doc.Data, FieldText),
		AuthorID:    str(doc.Data, FieldAuthorID),
		AuthorEmail: str(doc.Data, FieldAuthorEmail),
		CreatedAt:   created,
	}, nil
}

func FromComment(c models.Comment) store.Data {
	return store.Data{
		FieldText:        c.Text,
		FieldAuthorID:    c.AuthorID,
		FieldAuthorEmail: c.AuthorEmail,
		FieldCreatedAt:   store.ServerTimestamp(),
	}
}

// ToReply reads a document of videos/{video}/comments/{comment}/replies
func ToReply(doc store.Document) (models.Reply, error) {
	created, err := optionalTime(doc.Data, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		return models.Reply{}, recordError(doc.Collection, doc.ID, err)
	}
	return models.Reply{
		ID:          doc.ID,
		VideoID:     pathSegment(doc.Collection, 1),
		CommentID:   pathSegment(doc.Collection, 3),
		Text:        str(doc.Data, FieldText),
		AuthorID:    str(doc.Data, FieldAuthorID),
		AuthorEmail: str(doc.Data, FieldAuthorEmail),
		CreatedAt:   created,
	}, nil
}

func FromReply(r models.Reply) store.Data {
	return store.Data{
		FieldText:        r.Text,
		FieldAuthorID:    r.AuthorID,
		FieldAuthorEmail: r.AuthorEmail,
		FieldCreatedAt:   store.ServerTimestamp(),
	}
}

func ToReport(doc store.Document) (models.Report, error) {
	created, err := optionalTime(doc.Data, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		return models.Report{}, recordError(doc.Collection, doc.ID, err)
	}
	return models.Report{
		ID:         doc.ID,
		VideoID:    pathSegment(doc.Collection, 1),
		ReporterID: str(doc.Data, FieldReporterID),
		Reason:     str(doc.Data, FieldReason),
		CreatedAt:  created,
	}, nil
}

func FromReport(r models.Report) store.Data {
	return store.Data{
		FieldReporterID: r.ReporterID,
		FieldReason:     r.Reason,
		FieldCreatedAt:  store.ServerTimestamp(),
	}
}

// ToRoadmap maps the parent document only; steps live in a sub-collection
func ToRoadmap(doc store.Document) (models.Roadmap, error) {
	created, err := optionalTime(doc.Data, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		return models.Roadmap{}, recordError("roadmaps", doc.ID, err)
	}
	updated, err := optionalTime(doc.Data, FieldUpdatedAt, doc.UpdateTime)
	if err != nil {
		updated = created
	}
	return models.Roadmap{
		ID:          doc.ID,
		UserID:      str(doc.Data, FieldUserID),
		Title:       str(doc.Data, FieldTitle),
		Description: str(doc.Data, FieldDescription),
		Steps:       []models.RoadmapStep{},
		Generated:   boolean(doc.Data, FieldGenerated),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func FromRoadmap(r models.Roadmap) store.Data {
	return store.Data{
		FieldUserID:      r.UserID,
		FieldTitle:       r.Title,
		FieldDescription: r.Description,
		FieldGenerated:   r.Generated,
		FieldUpdatedAt:   store.ServerTimestamp(),
	}
}

func ToRoadmapStep(doc store.Document) (models.RoadmapStep, error) {
	return models.RoadmapStep{
		ID:          doc.ID,
		Order:       int(counter(doc.Data, FieldOrder)),
		Title:       str(doc.Data, FieldTitle),
		Description: str(doc.Data, FieldDescription),
		Completed:   boolean(doc.Data, FieldCompleted),
	}, nil
}

func FromRoadmapStep(s models.RoadmapStep) store.Data {
	return store.Data{
		FieldOrder:       s.Order,
		FieldTitle:       s.Title,
		FieldDescription: s.Description,
		FieldCompleted:   s.Completed,
	}
}

// ToPreference reads a document of users/{user}/preferences
func ToPreference(doc store.Document) (models.Preference, error) {
	created, err := optionalTime(doc.Data, FieldCreatedAt, doc.CreateTime)
	if err != nil {
		created = doc.CreateTime
	}
	return models.Preference{
		ID:         doc.ID,
		UserID:     pathSegment(doc.Collection, 1),
		CategoryID: str(doc.Data, FieldCategoryID),
		CreatedAt:  created,
	}, nil
}

func FromPreference(p models.Preference) store.Data {
	return store.Data{
		FieldCategoryID: p.CategoryID,
		FieldCreatedAt:  store.ServerTimestamp(),
	}
}

// MapList maps every document, leaving out the ones that fail. skipped is
// the number left out.
func MapList[T any](docs []store.Document, fn func(store.Document) (T, error)) (records []T, skipped int) {
	records = make([]T, 0, len(docs))
	for _, doc := range docs {
		record, err := fn(doc)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func pathSegment(collection string, i int) string {
	segments := strings.Split(collection, "/")
	if i < len(segments) {
		return segments[i]
	}
	return ""
}

func recordError(collection, id string, err error) error {
	return fmt.Errorf("%s/%s: %w", collection, id, err)
}

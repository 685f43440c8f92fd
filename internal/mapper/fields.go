package mapper

// Document field names. Every read and write of a stored field goes through
// these so a renamed field breaks the build instead of silently reading "".
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldRole          = "role"
	FieldPhotoURL      = "photo_url"
	FieldPhone         = "phone"
	FieldAddress       = "address"
	FieldJoinedAt      = "joined_at"
	FieldUpdatedAt     = "updated_at"
	FieldCreatedAt     = "created_at"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldCategoryID    = "category_id"
	FieldSubcategoryID = "subcategory_id"
	FieldUploaderID    = "uploader_id"
	FieldVideoURL      = "video_url"
	FieldThumbnailURL  = "thumbnail_url"
	FieldViews         = "views"
	FieldLikeCount     = "like_count"
	FieldLikedBy       = "liked_by"
	FieldBookmarkedBy  = "bookmarked_by"
	FieldCommentsCount = "comments_count"
	FieldReportsCount  = "reports_count"
	FieldAverageRating = "average_rating"
	FieldRatings       = "ratings"
	FieldRatingUserID  = "user_id"
	FieldRatingValue   = "rating"
	FieldUploadedAt    = "uploaded_at"
	FieldTopic         = "topic"
	FieldProblemURL    = "problem_url"
	FieldSolutionURL   = "solution_url"
	FieldEventDate     = "event_date"
	FieldCloseDate     = "registration_close_date"
	FieldMode          = "mode"
	FieldLocation      = "location"
	FieldOrganizer     = "organizer"
	FieldOwnerID       = "owner_id"
	FieldSubcategories = "subcategories"
	FieldText          = "text"
	FieldAuthorID      = "author_id"
	FieldAuthorEmail   = "author_email"
	FieldReporterID    = "reporter_id"
	FieldReason        = "reason"
	FieldUserID        = "user_id"
	FieldOrder         = "order"
	FieldCompleted     = "completed"
	FieldGenerated     = "generated"
)

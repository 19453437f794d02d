package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Names of the remote tables shared by client and server.
const (
	TableQuotes          = "quotes"
	TableUserFavorites   = "user_favorites"
	TableCollections     = "collections"
	TableCollectionItems = "collection_items"
)

// AvatarBucket is the object storage bucket holding profile pictures.
const AvatarBucket = "avatars"

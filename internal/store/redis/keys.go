package redis

import "strconv"

const (
	// KeyPrefixBookmark is the prefix for bookmark documents
	KeyPrefixBookmark = "marks:bookmark:"
	// KeyAllBookmarks is the sorted set of bookmark ids, scored by id
	KeyAllBookmarks = "marks:bookmarks:all"
	// KeyBookmarkSeq is the counter used to assign ids
	KeyBookmarkSeq = "marks:bookmarks:seq"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id int64) string {
	return KeyPrefixBookmark + strconv.FormatInt(id, 10)
}

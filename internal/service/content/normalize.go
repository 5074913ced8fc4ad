package content

import (
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/mediatypes"
)

const untitled = "Untitled"

// Field fallback chains, highest priority first.
var (
	folderIDFields     = []string{"id", "_id"}
	folderNameFields   = []string{"name", "title", "folderName"}
	folderBatchFields  = []string{"batchId", "batch_id", "batch"}
	folderParentFields = []string{"parentId", "parent_id", "parent"}

	itemIDFields       = []string{"id", "_id"}
	itemCourseFields   = []string{"courseId", "course_id", "course"}
	itemBatchFields    = []string{"batchId", "batch_id", "batch"}
	itemFolderFields   = []string{"folderId", "folder_id"}
	itemTitleFields    = []string{"title"}
	itemFileNameFields = []string{"fileName", "file_name"}
	itemNameFields     = []string{"name"}
	itemLocationFields = []string{"storagePath", "storage_path", "path", "storageLocation"}
	itemURLFields      = []string{"downloadUrl", "downloadURL", "download_url", "url", "retrievalUrl"}
	itemTypeFields     = []string{"fileType", "contentType", "mimeType", "type"}
	itemSizeFields     = []string{"size", "sizeBytes", "fileSize"}
	itemDurationFields = []string{"duration", "durationSeconds"}
	createdAtFields    = []string{"createdAt", "created_at", "uploadedAt"}
)

// rootSynonyms are the stored spellings of "no parent".
var rootSynonyms = map[string]bool{
	"":          true,
	"0":         true,
	"null":      true,
	"undefined": true,
	"root":      true,
	"home":      true,
}

var timestampPrefix = regexp.MustCompile(`^\d+_`)

// Normalizer maps raw store records onto canonical entities.
// It never fails; missing fields degrade to documented defaults.
type Normalizer struct {
	types *mediatypes.Registry
}

// NewNormalizer creates a normalizer using the given media type registry.
func NewNormalizer(types *mediatypes.Registry) *Normalizer {
	return &Normalizer{types: types}
}

// Folder normalizes one folder record.
func (n *Normalizer) Folder(rec models.Record) models.Folder {
	name := firstString(rec, folderNameFields...)
	if name == "" {
		name = untitled
	}
	return models.Folder{
		ID:        firstString(rec, folderIDFields...),
		Name:      name,
		BatchID:   firstString(rec, folderBatchFields...),
		ParentID:  ResolveParent(firstValue(rec, folderParentFields...)),
		CreatedAt: ParseTime(firstValue(rec, createdAtFields...)),
	}
}

// Item normalizes one file record.
func (n *Normalizer) Item(rec models.Record) models.ContentItem {
	location := firstString(rec, itemLocationFields...)
	fileName := firstString(rec, itemFileNameFields...)
	contentType := firstString(rec, itemTypeFields...)
	display := DisplayName(
		firstString(rec, itemTitleFields...),
		fileName,
		firstString(rec, itemNameFields...),
		location,
	)

	item := models.ContentItem{
		ID:              firstString(rec, itemIDFields...),
		CourseID:        firstString(rec, itemCourseFields...),
		BatchID:         firstString(rec, itemBatchFields...),
		FolderID:        ResolveParent(firstValue(rec, itemFolderFields...)),
		DisplayName:     display,
		FileName:        fileName,
		ContentType:     contentType,
		StorageLocation: location,
		RetrievalURL:    firstString(rec, itemURLFields...),
		SizeBytes:       parseSize(firstValue(rec, itemSizeFields...)),
		DurationSeconds: parseDuration(firstValue(rec, itemDurationFields...)),
		CreatedAt:       ParseTime(firstValue(rec, createdAtFields...)),
	}

	item.MediaType = models.MediaOther
	if n.types != nil {
		item.MediaType = n.types.Classify(contentType, fileName, display, location)
	}
	return item
}

// Folders normalizes a batch of folder records, keeping input order.
func (n *Normalizer) Folders(recs []models.Record) []models.Folder {
	out := make([]models.Folder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, n.Folder(rec))
	}
	return out
}

// Items normalizes a batch of file records, keeping input order.
func (n *Normalizer) Items(recs []models.Record) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(recs))
	for _, rec := range recs {
		out = append(out, n.Item(rec))
	}
	return out
}

// NormalizeID renders an identifier of any stored type as a comparable string.
// It is the same token the record stores key by.
func NormalizeID(v any) string {
	return models.CanonicalID(v)
}

// ResolveParent applies the null-synonym rule to a parent or folder
// reference. Every root spelling resolves to "".
func ResolveParent(v any) string {
	id := NormalizeID(v)
	if rootSynonyms[strings.ToLower(id)] {
		return ""
	}
	if f, err := strconv.ParseFloat(id, 64); err == nil && f == 0 {
		return ""
	}
	return id
}

// SameID compares two identifiers numerically when both parse as numbers,
// otherwise as strings.
func SameID(a, b string) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return false
}

// DisplayName picks the first non-empty of title, file name and name, then
// falls back to the storage location's last segment without its timestamp
// prefix, and finally to "Untitled".
func DisplayName(title, fileName, name, location string) string {
	for _, candidate := range []string{title, fileName, name} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	if s := nameFromLocation(location); s != "" {
		return s
	}
	return untitled
}

func nameFromLocation(location string) string {
	seg := lastSegment(location)
	if seg == "" {
		return ""
	}
	seg = timestampPrefix.ReplaceAllString(seg, "")
	if decoded, err := url.PathUnescape(seg); err == nil {
		seg = decoded
	}
	// encoded separators such as uploads%2F123_a.pdf
	if strings.Contains(seg, "/") {
		seg = timestampPrefix.ReplaceAllString(lastSegment(seg), "")
	}
	return strings.TrimSpace(seg)
}

func lastSegment(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// ParseTime accepts the timestamp shapes found in stored records and returns
// a UTC time, or nil when nothing usable is present.
func ParseTime(v any) *time.Time {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil
		}
		t = *x
	case map[string]any:
		t = fromSecondsMap(x)
	case models.Record:
		t = fromSecondsMap(x)
	case string:
		t = parseTimeString(x)
	default:
		if f, ok := toFloat(x); ok {
			t = fromEpoch(f)
		}
	}
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

func fromSecondsMap(m map[string]any) time.Time {
	secV, ok := m["seconds"]
	if !ok {
		secV, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}
	}
	sec, ok := toFloat(secV)
	if !ok {
		return time.Time{}
	}
	nsV, ok := m["nanoseconds"]
	if !ok {
		nsV = m["_nanoseconds"]
	}
	ns, _ := toFloat(nsV)
	return time.Unix(int64(sec), int64(ns))
}

// fromEpoch treats values below 1e11 as seconds and larger ones as milliseconds.
func fromEpoch(f float64) time.Time {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}
	}
	if f < 1e11 {
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9))
	}
	return time.UnixMilli(int64(f))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}
	return time.Time{}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func parseSize(v any) *int64 {
	f, ok := toFloat(v)
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int64(f)
	return &n
}

// parseDuration returns nil for zero, matching uploads that recorded no duration.
func parseDuration(v any) *float64 {
	f, ok := toFloat(v)
	if !ok || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func firstValue(rec models.Record, keys ...string) any {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func firstString(rec models.Record, keys ...string) string {
	for _, k := range keys {
		if s := NormalizeID(rec[k]); s != "" {
			return s
		}
	}
	return ""
}

package main

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/domain/repositories"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/service/content"
)

// fieldChange is one field that differs from its canonical form.
type fieldChange struct {
	Field string
	From  any
	To    any
}

// recordDiff lists the changes needed to canonicalize one record.
type recordDiff struct {
	Collection string
	ID         string
	Changes    []fieldChange
}

func (d recordDiff) patch() models.Record {
	p := make(models.Record, len(d.Changes))
	for _, c := range d.Changes {
		p[c.Field] = c.To
	}
	return p
}

func (d recordDiff) String() string {
	parts := make([]string, 0, len(d.Changes))
	for _, c := range d.Changes {
		parts = append(parts, fmt.Sprintf("%s: %#v -> %#v", c.Field, c.From, c.To))
	}
	return fmt.Sprintf("%s/%s {%s}", d.Collection, d.ID, strings.Join(parts, ", "))
}

// report summarizes one normalization run.
type report struct {
	Scanned int
	Diffs   []recordDiff
	Applied bool
}

// normalizeRecords scans both collections and, when apply is set, patches
// every record whose stored fields differ from their canonical spelling.
// Canonical fields are written alongside legacy aliases; aliases are left
// in place because readers prefer the canonical field.
func normalizeRecords(ctx context.Context, store contentRepo.RecordStore, tx repositories.TransactionManager, c models.Collections, apply bool) (report, error) {
	var rep report
	err := tx.ExecTx(ctx, func(ctx context.Context) error {
		folders, err := store.QueryAll(ctx, c.Folders)
		if err != nil {
			return fmt.Errorf("scan %s: %w", c.Folders, err)
		}
		items, err := store.QueryAll(ctx, c.Items)
		if err != nil {
			return fmt.Errorf("scan %s: %w", c.Items, err)
		}
		rep.Scanned = len(folders) + len(items)

		for _, rec := range folders {
			if d, ok := diffRecord(c.Folders, rec, canonicalFolder(rec)); ok {
				rep.Diffs = append(rep.Diffs, d)
			}
		}
		for _, rec := range items {
			if d, ok := diffRecord(c.Items, rec, canonicalItem(rec)); ok {
				rep.Diffs = append(rep.Diffs, d)
			}
		}

		if !apply {
			return nil
		}
		for _, d := range rep.Diffs {
			if err := store.Update(ctx, d.Collection, d.ID, d.patch()); err != nil {
				return fmt.Errorf("update %s/%s: %w", d.Collection, d.ID, err)
			}
		}
		rep.Applied = true
		return nil
	})
	return rep, err
}

// canonicalFolder returns the canonical value of each folder field that has
// one. A nil value means the field should be null.
func canonicalFolder(rec models.Record) models.Record {
	out := models.Record{}
	if batch := firstPresent(rec, "batchId", "batch_id", "batch"); batch != nil {
		out[models.FieldBatchID] = content.NormalizeID(batch)
	}
	if name := firstPresent(rec, "name", "title", "folderName"); name != nil {
		out[models.FieldName] = strings.TrimSpace(content.NormalizeID(name))
	}
	out[models.FieldParentID] = nullableRef(firstPresent(rec, "parentId", "parent_id", "parent"))
	return out
}

// canonicalItem mirrors canonicalFolder for file records.
func canonicalItem(rec models.Record) models.Record {
	out := models.Record{}
	if course := firstPresent(rec, "courseId", "course_id", "course"); course != nil {
		out[models.FieldCourseID] = content.NormalizeID(course)
	}
	if batch := firstPresent(rec, "batchId", "batch_id", "batch"); batch != nil {
		out[models.FieldBatchID] = content.NormalizeID(batch)
	}
	out[models.FieldFolderID] = nullableRef(firstPresent(rec, "folderId", "folder_id"))

	location := content.NormalizeID(firstPresent(rec, "storagePath", "storage_path", "path", "storageLocation"))
	if location != "" {
		out[models.FieldStoragePath] = location
	}
	if u := content.NormalizeID(firstPresent(rec, "downloadUrl", "downloadURL", "download_url", "url", "retrievalUrl")); u != "" {
		out[models.FieldDownloadURL] = u
	}
	fileName := content.NormalizeID(firstPresent(rec, "fileName", "file_name", "name", "title"))
	if fileName != "" {
		out[models.FieldFileName] = fileName
	}

	if title := content.NormalizeID(firstPresent(rec, "title")); title == "" && (fileName != "" || location != "") {
		out[models.FieldTitle] = content.DisplayName("", fileName, "", location)
	}
	return out
}

// nullableRef maps every root spelling to nil and other references to
// their canonical string id.
func nullableRef(v any) any {
	if id := content.ResolveParent(v); id != "" {
		return id
	}
	return nil
}

func firstPresent(rec models.Record, keys ...string) any {
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

// diffRecord compares stored values against want. A nil target only counts
// when the stored field exists and is not already null.
func diffRecord(collection string, rec, want models.Record) (recordDiff, bool) {
	d := recordDiff{Collection: collection, ID: content.NormalizeID(firstPresent(rec, "id", "_id"))}
	for field, to := range want {
		from, present := rec[field]
		switch {
		case to == nil:
			if !present || from == nil {
				continue
			}
		case present && reflect.DeepEqual(from, to):
			continue
		}
		d.Changes = append(d.Changes, fieldChange{Field: field, From: from, To: to})
	}
	sort.Slice(d.Changes, func(i, j int) bool { return d.Changes[i].Field < d.Changes[j].Field })
	return d, d.ID != "" && len(d.Changes) > 0
}

package main

import (
	"context"
	"fmt"
	"time"

	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/domain/repositories"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/service/content"
)

// demoRecords mirrors what older clients left in the store: numeric and
// string ids mixed, "0" and null for root, snake_case fields, an orphaned
// folder and a file pointing at a folder that no longer exists.
func demoRecords(courseID, batchID string) (folders, items []models.Record) {
	base := time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC)
	millis := func(d time.Duration) int64 { return base.Add(d).UnixMilli() }
	path := func(ts int64, name string) string {
		return fmt.Sprintf("courses/%s/batches/%s/%d_%s", courseID, batchID, ts, name)
	}

	folders = []models.Record{
		{"id": 1, "batchId": batchID, "name": "Week 1", "parentId": "0", "createdAt": millis(0)},
		{"id": 2, "batchId": batchID, "name": "Day 1", "parentId": 1},
		{"id": "3", "batch_id": batchID, "title": "Day 2", "parent_id": "1"},
		{"id": 4, "batchId": batchID, "name": "Old handouts", "parentId": 99},
		{"id": 5, "batchId": batchID, "name": "Week 2", "parentId": nil},
	}

	items = []models.Record{
		{
			"id": "c1", "courseId": courseID, "batchId": batchID, "folderId": 2,
			"fileName": "intro.mp4", "fileType": "video/mp4",
			"storagePath": path(millis(time.Hour), "intro.mp4"),
			"size": 1 << 20, "duration": 312.5, "createdAt": base.Add(time.Hour).Format(time.RFC3339),
		},
		{
			"id": "c2", "course_id": courseID, "batch_id": batchID, "folderId": "0",
			"storagePath": path(millis(2*time.Hour), "course%20syllabus.pdf"),
		},
		{
			"id": "c3", "courseId": courseID, "batchId": batchID, "folderId": "3",
			"title": "Slides", "fileName": "slides.pdf", "fileType": "application/pdf",
			"createdAt": map[string]any{"seconds": base.Add(3 * time.Hour).Unix(), "nanoseconds": 0},
		},
		{
			"id": "c4", "courseId": courseID, "batchId": batchID, "folderId": 404,
			"fileName": "lost.png",
		},
		{
			"id": "c5", "courseId": courseID, "batchId": batchID, "folderId": nil,
			"title": "Whiteboard", "fileName": "board.jpg", "createdAt": millis(4 * time.Hour),
		},
	}
	return folders, items
}

func seed(ctx context.Context, store contentRepo.RecordStore, tx repositories.TransactionManager, c models.Collections, folders, items []models.Record) error {
	return tx.ExecTx(ctx, func(ctx context.Context) error {
		for _, rec := range folders {
			if _, err := store.Insert(ctx, c.Folders, rec); err != nil {
				return fmt.Errorf("insert folder %v: %w", rec["id"], err)
			}
		}
		for _, rec := range items {
			if _, err := store.Insert(ctx, c.Items, rec); err != nil {
				return fmt.Errorf("insert file %v: %w", rec["id"], err)
			}
		}
		return nil
	})
}

// clearBatch deletes the batch's folders and the course batch's files.
func clearBatch(ctx context.Context, store contentRepo.RecordStore, tx repositories.TransactionManager, c models.Collections, courseID, batchID string) (int, error) {
	n := content.NewNormalizer(nil)
	removed := 0
	err := tx.ExecTx(ctx, func(ctx context.Context) error {
		recs, err := store.QueryAll(ctx, c.Folders)
		if err != nil {
			return err
		}
		for _, f := range n.Folders(recs) {
			if content.SameID(f.BatchID, batchID) {
				if err := store.Delete(ctx, c.Folders, f.ID); err != nil {
					return err
				}
				removed++
			}
		}

		recs, err = store.QueryAll(ctx, c.Items)
		if err != nil {
			return err
		}
		for _, it := range n.Items(recs) {
			if content.SameID(it.CourseID, courseID) && content.SameID(it.BatchID, batchID) {
				if err := store.Delete(ctx, c.Items, it.ID); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	return removed, err
}

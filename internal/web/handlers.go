package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Twitter Bookmarks Manager API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/sync":            "POST - Sync bookmarks from Twitter",
			"/health":          "GET - Health check",
			"/stats":           "GET - Get database statistics",
			"/bookmarks":       "GET - List all bookmarks (sorted by created_at desc)",
			"/bookmarks/{id}":  "PATCH - Update bookmark (toggle read/unread, manage categories)",
			"/categories":      "GET - List all categories, POST - Create a new category",
			"/categories/{id}": "DELETE - Mark a category as deleted",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.GetSyncState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Health check failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"last_sync": state.LastSyncDoneAt,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get stats: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !s.syncMu.TryLock() {
		writeError(w, http.StatusConflict, "A sync is already in progress")
		return
	}
	defer s.syncMu.Unlock()

	result, err := s.syncer.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"detail":            fmt.Sprintf("Sync failed: %v", err),
			"pages_fetched":     result.PagesFetched,
			"total_fetched":     result.TotalFetched,
			"new_bookmarks":     result.Added,
			"updated_bookmarks": result.Updated,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"sync_started_at":   result.StartedAt,
		"sync_completed_at": result.CompletedAt,
		"pages_fetched":     result.PagesFetched,
		"total_fetched":     result.TotalFetched,
		"new_bookmarks":     result.Added,
		"updated_bookmarks": result.Updated,
	})
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)
	if limit > 1000 {
		limit = 1000
	}

	tweets, err := s.store.ListTweets(skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list bookmarks: %v", err))
		return
	}
	total, err := s.store.CountTweets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list bookmarks: %v", err))
		return
	}

	if tweets == nil {
		tweets = []db.Tweet{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     total,
		"skip":      skip,
		"limit":     limit,
		"count":     len(tweets),
		"bookmarks": tweets,
	})
}

type bookmarkUpdate struct {
	IsRead           *bool   `json:"is_read"`
	AddCategories    []int64 `json:"add_categories"`
	RemoveCategories []int64 `json:"remove_categories"`
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bookmark ID")
		return
	}

	var update bookmarkUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if _, err := s.store.GetTweet(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Bookmark with id %d not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update bookmark: %v", err))
		return
	}

	// Resolve every referenced category before touching the bookmark; a bad
	// id rejects the whole request with nothing applied.
	addCategories := make([]*db.Category, 0, len(update.AddCategories))
	for _, categoryID := range update.AddCategories {
		category, err := s.store.GetCategory(categoryID)
		if err != nil || category.IsDeleted {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Category with id %d not found", categoryID))
			return
		}
		addCategories = append(addCategories, category)
	}

	var updatedFields []string
	var addedCategories, removedCategories []string

	if update.IsRead != nil {
		if err := s.store.SetTweetRead(id, *update.IsRead); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update bookmark: %v", err))
			return
		}
		updatedFields = append(updatedFields, fmt.Sprintf("is_read=%t", *update.IsRead))
	}

	for _, category := range addCategories {
		added, err := s.store.AssignCategory(id, category.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update bookmark: %v", err))
			return
		}
		if added {
			addedCategories = append(addedCategories, category.Name)
			updatedFields = append(updatedFields, fmt.Sprintf("added category '%s'", category.Name))
		}
	}

	for _, categoryID := range update.RemoveCategories {
		removed, err := s.store.UnassignCategory(id, categoryID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update bookmark: %v", err))
			return
		}
		if removed {
			name := strconv.FormatInt(categoryID, 10)
			if category, err := s.store.GetCategory(categoryID); err == nil {
				name = category.Name
			}
			removedCategories = append(removedCategories, name)
			updatedFields = append(updatedFields, fmt.Sprintf("removed category '%s'", name))
		}
	}

	tweet, err := s.store.GetTweet(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update bookmark: %v", err))
		return
	}
	categories, err := s.store.CategoriesForTweet(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update bookmark: %v", err))
		return
	}
	if categories == nil {
		categories = []db.Category{}
	}

	message := "No changes made"
	if len(updatedFields) > 0 {
		message = "Bookmark updated: " + strings.Join(updatedFields, ", ")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": message,
		"bookmark": map[string]any{
			"id":              tweet.ID,
			"tweet_id":        tweet.TweetID,
			"text":            tweet.Text,
			"author_username": tweet.AuthorUsername,
			"is_read":         tweet.IsRead,
			"url":             tweet.URL,
			"updated_at":      tweet.UpdatedAt,
			"categories":      categories,
		},
		"changes": map[string]any{
			"read_status_changed": update.IsRead != nil,
			"categories_added":    addedCategories,
			"categories_removed":  removedCategories,
		},
	})
}

type categoryCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	category, err := s.store.CreateCategory(req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrCategoryExists):
			writeError(w, http.StatusConflict, fmt.Sprintf("Category with name '%s' already exists", req.Name))
		case errors.Is(err, db.ErrInvalidCategoryName):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create category: %v", err))
		}
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	categories, err := s.store.ListCategories(includeDeleted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list categories: %v", err))
		return
	}
	if categories == nil {
		categories = []db.Category{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":      len(categories),
		"categories": categories,
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := s.store.DeleteCategory(id)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, fmt.Sprintf("Category with id %d not found", id))
		case errors.Is(err, db.ErrCategoryDeleted):
			writeError(w, http.StatusGone, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete category: %v", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Category '%s' marked as deleted", category.Name),
		"category": map[string]any{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
			"is_deleted":  true,
			"deleted_at":  category.UpdatedAt,
		},
	})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

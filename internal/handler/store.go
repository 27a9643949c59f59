package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linecut/internal/model"
)

type Catalog interface {
	List(ctx context.Context) ([]model.Store, error)
	Get(ctx context.Context, id string) (*model.Store, error)
	Products(ctx context.Context, storeID string) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.ProductCategory, error)
}

type Favorites interface {
	List(ctx context.Context, userID string) ([]model.Store, error)
	Toggle(ctx context.Context, userID, storeID string) (bool, error)
}

func ListStoresHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := catalog.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if stores == nil {
			stores = []model.Store{}
		}
		writeJSON(w, http.StatusOK, stores)
	}
}

func GetStoreHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := catalog.Get(r.Context(), chi.URLParam(r, "storeID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, store)
	}
}

func ListProductsHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := chi.URLParam(r, "storeID")
		if _, err := catalog.Get(r.Context(), storeID); err != nil {
			writeError(w, r, err)
			return
		}

		products, err := catalog.Products(r.Context(), storeID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if products == nil {
			products = []model.Product{}
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func ListCategoriesHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := catalog.Categories(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if categories == nil {
			categories = []model.ProductCategory{}
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func ListFavoritesHandler(favs Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		stores, err := favs.List(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if stores == nil {
			stores = []model.Store{}
		}
		writeJSON(w, http.StatusOK, stores)
	}
}

func ToggleFavoriteHandler(favs Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		favorite, err := favs.Toggle(r.Context(), userID, chi.URLParam(r, "storeID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
	}
}

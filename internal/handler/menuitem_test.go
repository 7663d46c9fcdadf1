package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
	"github.com/LacErnest/dj-assesment-api/internal/handler"
	"github.com/LacErnest/dj-assesment-api/internal/repository/memory"
	"github.com/LacErnest/dj-assesment-api/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewMenuService(
		memory.NewMenuItemRepository(store),
		memory.NewTransactionManager(store),
		logger,
	)

	server := httptest.NewServer(handler.NewRouter(svc, logger))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeItem(t *testing.T, resp *http.Response) models.MenuItem {
	t.Helper()
	defer resp.Body.Close()

	var item models.MenuItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	return item
}

func createItem(t *testing.T, server *httptest.Server, name string, parentID *string) models.MenuItem {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/menu-items", map[string]interface{}{
		"name":      name,
		"parent_id": parentID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeItem(t, resp)
}

func TestCreateMenuItemEndpoint(t *testing.T) {
	server := newTestServer(t)

	root := createItem(t, server, "Root Menu", nil)
	assert.Equal(t, 0, root.Depth)

	child := createItem(t, server, "Drinks", &root.ID)
	assert.Equal(t, 1, child.Depth)

	t.Run("invalid name returns 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/menu-items", map[string]interface{}{"name": "   "})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	})

	t.Run("missing parent returns 404", func(t *testing.T) {
		missing := "77777777-7777-7777-7777-777777777777"
		resp := doJSON(t, http.MethodPost, server.URL+"/api/menu-items", map[string]interface{}{
			"name":      "Orphan",
			"parent_id": missing,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/menu-items", "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetMenuItemEndpoint(t *testing.T) {
	server := newTestServer(t)

	root := createItem(t, server, "Root", nil)
	child := createItem(t, server, "Child", &root.ID)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/menu-items/"+child.ID, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.MenuItemDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, child.ID, detail.Item.ID)
	assert.Equal(t, "Root", detail.RootName)

	t.Run("unknown id returns 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/menu-items/88888888-8888-8888-8888-888888888888", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateMenuItemEndpoint(t *testing.T) {
	server := newTestServer(t)

	root := createItem(t, server, "Root", nil)
	child := createItem(t, server, "Child", &root.ID)
	grandchild := createItem(t, server, "Grandchild", &child.ID)

	t.Run("rename", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, server.URL+"/api/menu-items/"+child.ID,
			map[string]interface{}{"name": "Renamed"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		item := decodeItem(t, resp)
		assert.Equal(t, "Renamed", item.Name)
	})

	t.Run("cycle returns 409", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, server.URL+"/api/menu-items/"+root.ID,
			map[string]interface{}{"parent_id": grandchild.ID})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("null parent moves to root", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, server.URL+"/api/menu-items/"+grandchild.ID,
			map[string]interface{}{"parent_id": nil})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		item := decodeItem(t, resp)
		assert.Nil(t, item.ParentID)
		assert.Equal(t, 0, item.Depth)
	})

	t.Run("absent parent keeps current parent", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, server.URL+"/api/menu-items/"+child.ID,
			map[string]interface{}{"name": "Still Nested"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		item := decodeItem(t, resp)
		require.NotNil(t, item.ParentID)
		assert.Equal(t, root.ID, *item.ParentID)
	})
}

func TestDeleteMenuItemEndpoint(t *testing.T) {
	server := newTestServer(t)

	root := createItem(t, server, "Root", nil)
	child := createItem(t, server, "Child", &root.ID)

	t.Run("default policy rejects when children exist", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/menu-items/"+root.ID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown policy returns 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/menu-items/"+root.ID+"?policy=bogus", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cascade deletes the subtree", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/menu-items/"+root.ID+"?policy=cascade", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		for _, id := range []string{root.ID, child.ID} {
			resp := doJSON(t, http.MethodGet, server.URL+"/api/menu-items/"+id, nil)
			resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		}
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/menu-items/"+root.ID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListEndpoints(t *testing.T) {
	server := newTestServer(t)

	root := createItem(t, server, "Root", nil)
	a := createItem(t, server, "A", &root.ID)
	b := createItem(t, server, "B", &root.ID)
	deep := createItem(t, server, "Deep", &a.ID)

	decodeItems := func(t *testing.T, resp *http.Response) []models.MenuItem {
		t.Helper()
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var items []models.MenuItem
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		return items
	}

	t.Run("roots", func(t *testing.T) {
		items := decodeItems(t, doJSON(t, http.MethodGet, server.URL+"/api/menu-items", nil))
		require.Len(t, items, 1)
		assert.Equal(t, root.ID, items[0].ID)
	})

	t.Run("children", func(t *testing.T) {
		items := decodeItems(t, doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/menu-items/%s/children", server.URL, root.ID), nil))
		assert.Len(t, items, 2)
	})

	t.Run("subtree", func(t *testing.T) {
		items := decodeItems(t, doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/menu-items/%s/subtree", server.URL, root.ID), nil))
		assert.Len(t, items, 3)
	})

	t.Run("subtree with max_depth", func(t *testing.T) {
		items := decodeItems(t, doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/menu-items/%s/subtree?max_depth=1", server.URL, root.ID), nil))
		assert.Len(t, items, 2)
	})

	t.Run("invalid max_depth returns 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/menu-items/%s/subtree?max_depth=-2", server.URL, root.ID), nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ancestors", func(t *testing.T) {
		items := decodeItems(t, doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/menu-items/%s/ancestors", server.URL, deep.ID), nil))
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].ID)
		assert.Equal(t, root.ID, items[1].ID)
	})

	t.Run("empty listing is a JSON array", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/menu-items/%s/children", server.URL, b.ID), nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(raw))
	})

	t.Run("invalid limit returns 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/menu-items?limit=zero", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestTreeEndpoint(t *testing.T) {
	server := newTestServer(t)

	root := createItem(t, server, "Root", nil)
	child := createItem(t, server, "Child", &root.ID)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/menu-items/tree", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree models.MenuTree
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, root.ID, tree.Roots[0].ID)
	require.Len(t, tree.Roots[0].Children, 1)
	assert.Equal(t, child.ID, tree.Roots[0].Children[0].ID)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

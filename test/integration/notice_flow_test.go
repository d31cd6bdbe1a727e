//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-admin-console/internal/event"
	"go-admin-console/internal/model"
)

func TestNoticePublishFlow(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAdmin(t, "Password123!")
	pair := env.loginAdmin(t, account, "Password123!")

	events, unsubscribe := env.Bus.Subscribe()
	defer unsubscribe()

	created := postJSON(t, env.Server.URL+"/api/v1/admin/notices", model.CreateNoticeRequest{
		Title:   "Maintenance window",
		Content: "Sunday 02:00-04:00 UTC",
		Type:    "system",
	}, pair.AccessToken)
	require.Equal(t, "OK", created.Code)

	var notice model.Notice
	require.NoError(t, json.Unmarshal(created.Data, &notice))
	require.Equal(t, model.NoticeStatusDraft, notice.Status)

	published := postJSON(t, env.Server.URL+"/api/v1/admin/notices/"+notice.ID+"/publish", nil, pair.AccessToken)
	require.Equal(t, "OK", published.Code)

	var after model.Notice
	require.NoError(t, json.Unmarshal(published.Data, &after))
	require.Equal(t, model.NoticeStatusPublished, after.Status)
	require.NotNil(t, after.PublishedAt)

	select {
	case e := <-events:
		require.Equal(t, event.Type(event.TypeNoticePublished), e.Type)
		require.Equal(t, "admin", e.Platform)
	case <-time.After(2 * time.Second):
		t.Fatal("publish event not observed on the bus")
	}

	// Publishing twice is rejected.
	require.NotEqual(t, http.StatusOK,
		statusOf(t, http.MethodPost, env.Server.URL+"/api/v1/admin/notices/"+notice.ID+"/publish", nil, pair.AccessToken))
}

func TestChunkedUploadOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAdmin(t, "Password123!")
	pair := env.loginAdmin(t, account, "Password123!")

	content := []byte("integration upload payload, split across two chunks!")
	chunkSize := int64(32)

	initResp := postJSON(t, env.Server.URL+"/api/v1/admin/uploads/chunked/init", model.ChunkedUploadInitRequest{
		FileName:  "payload.bin",
		FileSize:  int64(len(content)),
		ChunkSize: chunkSize,
	}, pair.AccessToken)
	require.Equal(t, "OK", initResp.Code)

	var initData model.ChunkedUploadInitResponse
	require.NoError(t, json.Unmarshal(initResp.Data, &initData))
	require.Equal(t, 2, initData.TotalChunks)

	for i := 0; i < initData.TotalChunks; i++ {
		start := int64(i) * chunkSize
		end := start + chunkSize
		if end > int64(len(content)) {
			end = int64(len(content))
		}

		url := env.Server.URL + "/api/v1/admin/uploads/chunked/" + initData.UploadID + "/chunks/" + strconv.Itoa(i)
		req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(content[start:end]))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	complete := postJSON(t, env.Server.URL+"/api/v1/admin/uploads/chunked/"+initData.UploadID+"/complete", nil, pair.AccessToken)
	require.Equal(t, "OK", complete.Code)

	var saved model.UploadedFile
	require.NoError(t, json.Unmarshal(complete.Data, &saved))
	require.Equal(t, "payload.bin", saved.Name)
	require.Equal(t, int64(len(content)), saved.Size)
}

func TestDictFlow(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAdmin(t, "Password123!")
	pair := env.loginAdmin(t, account, "Password123!")

	typeKey := "order-status-" + account

	created := postJSON(t, env.Server.URL+"/api/v1/admin/dicts/types", model.CreateDictTypeRequest{
		Name:    "Order status",
		TypeKey: typeKey,
	}, pair.AccessToken)
	require.Equal(t, "OK", created.Code)

	item := postJSON(t, env.Server.URL+"/api/v1/admin/dicts/types/"+typeKey+"/items", model.CreateDictItemRequest{
		Label: "Pending",
		Value: "pending",
		Sort:  1,
	}, pair.AccessToken)
	require.Equal(t, "OK", item.Code)

	items := getJSON(t, nil, env.Server.URL+"/api/v1/admin/dicts/types/"+typeKey+"/items", pair.AccessToken)
	require.Equal(t, "OK", items.Code)

	var listed []model.DictItem
	require.NoError(t, json.Unmarshal(items.Data, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "Pending", listed[0].Label)
}

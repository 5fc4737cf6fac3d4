// internal/tests/upload_test.go
package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/skillset/skillset-backend/internal/models"
)

type UploadTestSuite struct {
	suite.Suite
	env *testEnv

	user  *models.User
	admin *models.User
	task  *models.Task

	userCookie  *http.Cookie
	adminCookie *http.Cookie
}

func (suite *UploadTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.user = suite.env.createUser(suite.T(), "alice", models.RoleUser)
	suite.admin = suite.env.createUser(suite.T(), "admin", models.RoleAdmin)
	suite.task = suite.env.createTask(suite.T(), "Sort Recycling", 150)
	suite.userCookie = suite.env.sessionCookie(suite.T(), suite.user.ID)
	suite.adminCookie = suite.env.sessionCookie(suite.T(), suite.admin.ID)
}

func (suite *UploadTestSuite) createUpload() uuid.UUID {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/uploads", map[string]string{
		"taskId": suite.task.ID.String(),
	}, suite.userCookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	upload := body["upload"].(map[string]interface{})
	id, err := uuid.Parse(upload["id"].(string))
	require.NoError(suite.T(), err)
	return id
}

func (suite *UploadTestSuite) balanceOf(userID uuid.UUID) int {
	user, err := suite.env.store.GetUser(userID)
	require.NoError(suite.T(), err)
	return user.Balance
}

func (suite *UploadTestSuite) TestCreateRequiresSession() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/uploads", map[string]string{
		"taskId": suite.task.ID.String(),
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *UploadTestSuite) TestCreate() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/uploads", map[string]string{
		"taskId": suite.task.ID.String(),
	}, suite.userCookie)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	body := decodeBody(suite.T(), w)

	upload := body["upload"].(map[string]interface{})
	assert.Equal(suite.T(), string(models.UploadStatusValidating), upload["status"])
	assert.Equal(suite.T(), suite.user.ID.String(), upload["userId"])

	// No reward at creation time.
	assert.Equal(suite.T(), float64(0), body["reward"])
	assert.Equal(suite.T(), float64(0), body["newBalance"])
	assert.Equal(suite.T(), 0, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestCreateUnknownTask() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/uploads", map[string]string{
		"taskId": uuid.New().String(),
	}, suite.userCookie)

	require.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "Task not found", decodeBody(suite.T(), w)["error"])
}

func (suite *UploadTestSuite) TestCreateWithPendingUpload() {
	suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost, "/api/uploads", map[string]string{
		"taskId": suite.task.ID.String(),
	}, suite.userCookie)

	require.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "You have a pending upload for this task", decodeBody(suite.T(), w)["error"])
}

func (suite *UploadTestSuite) TestCreateAfterApproval() {
	uploadID := suite.createUpload()
	_, err := suite.env.store.ApproveUpload(uploadID)
	require.NoError(suite.T(), err)

	w := suite.env.request(suite.T(), http.MethodPost, "/api/uploads", map[string]string{
		"taskId": suite.task.ID.String(),
	}, suite.userCookie)

	require.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "Task already completed", decodeBody(suite.T(), w)["error"])
}

func (suite *UploadTestSuite) TestValidateAwardsReward() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/validate", uploadID), nil, suite.adminCookie)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), string(models.UploadStatusApproved), body["status"])
	assert.Equal(suite.T(), float64(150), body["reward"])
	assert.Equal(suite.T(), float64(150), body["newBalance"])
	assert.Equal(suite.T(), 150, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestValidateTwiceAwardsOnce() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/validate", uploadID), nil, suite.adminCookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/validate", uploadID), nil, suite.adminCookie)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), 150, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestValidateRequiresAdmin() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/validate", uploadID), nil, suite.userCookie)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), 0, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestValidateUnknownUpload() {
	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/validate", uuid.New()), nil, suite.adminCookie)

	require.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "Upload not found", decodeBody(suite.T(), w)["error"])
}

func (suite *UploadTestSuite) TestCancelOwnUpload() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/cancel", uploadID), nil, suite.userCookie)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), string(models.UploadStatusCancelled), decodeBody(suite.T(), w)["status"])
	assert.Equal(suite.T(), 0, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestCancelSomeoneElsesUpload() {
	uploadID := suite.createUpload()

	other := suite.env.createUser(suite.T(), "bob", models.RoleUser)
	otherCookie := suite.env.sessionCookie(suite.T(), other.ID)

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/cancel", uploadID), nil, otherCookie)

	require.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), "Not authorized", decodeBody(suite.T(), w)["error"])
}

func (suite *UploadTestSuite) TestRejectLeavesBalanceAlone() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/reject", uploadID), nil, suite.adminCookie)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), string(models.UploadStatusRejected), decodeBody(suite.T(), w)["status"])
	assert.Equal(suite.T(), 0, suite.balanceOf(suite.user.ID))

	// Repeated rejects stay a no-op.
	w = suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/reject", uploadID), nil, suite.adminCookie)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), 0, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestValidateAfterCancel() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/cancel", uploadID), nil, suite.userCookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost,
		fmt.Sprintf("/api/uploads/%s/validate", uploadID), nil, suite.adminCookie)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), 0, suite.balanceOf(suite.user.ID))
}

func (suite *UploadTestSuite) TestListMine() {
	uploadID := suite.createUpload()

	w := suite.env.request(suite.T(), http.MethodGet, "/api/uploads/me", nil, suite.userCookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	uploads := decodeList(suite.T(), w)
	require.Len(suite.T(), uploads, 1)
	assert.Equal(suite.T(), uploadID.String(), uploads[0]["id"])
}

func (suite *UploadTestSuite) TestAdminListing() {
	suite.createUpload()

	// Regular users cannot see the admin listing.
	w := suite.env.request(suite.T(), http.MethodGet, "/api/admin/uploads", nil, suite.userCookie)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/admin/uploads", nil, suite.adminCookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	rows := decodeList(suite.T(), w)
	require.Len(suite.T(), rows, 1)
	assert.Equal(suite.T(), "alice", rows[0]["username"])
	assert.Equal(suite.T(), "Sort Recycling", rows[0]["taskTitle"])
	assert.Equal(suite.T(), string(models.UploadStatusValidating), rows[0]["status"])
}

func TestUploadSuite(t *testing.T) {
	suite.Run(t, new(UploadTestSuite))
}

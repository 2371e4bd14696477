package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SaveLoad(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewSessionStore(db)
	user := &AdminUser{ID: "admin-id", Username: "admin", Role: RoleAdmin}
	userJson, err := json.Marshal(user)
	require.NoError(t, err)
	token := "header.claims.signature"

	mock.ExpectSet(userKey, userJson, 0).SetVal("OK")
	mock.ExpectSet(tokenKey, token, 0).SetVal("OK")
	require.NoError(t, store.Save(context.Background(), user, token))

	mock.ExpectGet(userKey).SetVal(string(userJson))
	mock.ExpectGet(tokenKey).SetVal(token)
	loadedUser, loadedToken, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loadedUser)
	assert.Equal(t, *user, *loadedUser)
	assert.Equal(t, token, loadedToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Load_NoSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewSessionStore(db)

	mock.ExpectGet(userKey).RedisNil()
	user, token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestSessionStore_Load_PartialPair(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewSessionStore(db)

	// user present, token missing: never a partial pair
	mock.ExpectGet(userKey).SetVal(`{"id":"admin-id","username":"admin","role":"admin"}`)
	mock.ExpectGet(tokenKey).RedisNil()
	user, token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestSessionStore_Load_CorruptedUser(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewSessionStore(db)

	mock.ExpectGet(userKey).SetVal("{{{not json")
	mock.ExpectGet(tokenKey).SetVal("header.claims.signature")
	user, token, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestSessionStore_Clear_Idempotent(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewSessionStore(db)

	mock.ExpectDel(userKey, tokenKey).SetVal(2)
	require.NoError(t, store.Clear(context.Background()))

	// nothing left to remove, still no error
	mock.ExpectDel(userKey, tokenKey).SetVal(0)
	require.NoError(t, store.Clear(context.Background()))

	mock.ExpectGet(userKey).RedisNil()
	user, token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

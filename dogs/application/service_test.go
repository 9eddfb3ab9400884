package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doghouse/dogs/domain"
)

type fakeStore struct {
	dogs      []domain.Dog
	getErr    error
	appendErr error

	getCalls int
	appended []domain.Dog
}

func (s *fakeStore) GetAll(context.Context) ([]domain.Dog, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.dogs, nil
}

func (s *fakeStore) Append(_ context.Context, d domain.Dog) (domain.Dog, error) {
	if s.appendErr != nil {
		return domain.Dog{}, s.appendErr
	}
	d.ID = fmt.Sprint(len(s.dogs) + 1)
	s.dogs = append(s.dogs, d)
	s.appended = append(s.appended, d)
	return d, nil
}

func twoDogs() []domain.Dog {
	return []domain.Dog{
		{ID: "1", Name: "TestName1", Color: "TestColor1", TailLength: 1, Weight: 1},
		{ID: "2", Name: "TestName2", Color: "TestColor2", TailLength: 2, Weight: 2},
	}
}

func TestService_ListDogs_SortsAndPages(t *testing.T) {
	store := &fakeStore{dogs: twoDogs()}
	svc := NewService(store)

	got, err := svc.ListDogs(context.Background(), ListParams{
		Attribute: "name", Order: "desc", PageNumber: intp(2), PageSize: intp(1),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"TestName1"}, names(got))
	assert.Equal(t, 1, store.getCalls)
}

func TestService_ListDogs_StoreFailure(t *testing.T) {
	svc := NewService(&fakeStore{getErr: errors.New("Test Exception")})

	_, err := svc.ListDogs(context.Background(), ListParams{})
	var sf *domain.StoreFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "Test Exception", sf.Err.Error())
}

func TestService_NameExists(t *testing.T) {
	svc := NewService(&fakeStore{dogs: twoDogs()})

	ok, err := svc.NameExists(context.Background(), "testname1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.NameExists(context.Background(), "NewName")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_CreateDog_Appends(t *testing.T) {
	store := &fakeStore{dogs: twoDogs()}
	svc := NewService(store)

	dog, err := svc.CreateDog(context.Background(), domain.Candidate{
		Name: "NewDog", Color: "Brown", TailLength: fp(5.3), Weight: fp(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "3", dog.ID)
	assert.Equal(t, 1, store.getCalls)
	require.Len(t, store.appended, 1)
	assert.Equal(t, domain.Dog{ID: "3", Name: "NewDog", Color: "Brown", TailLength: 5.3, Weight: 25}, store.appended[0])
}

func TestService_CreateDog_RejectedDoesNotAppend(t *testing.T) {
	cases := map[string]domain.Candidate{
		"duplicate":   {Name: "TestName1", TailLength: fp(5.3), Weight: fp(25)},
		"weight":      {Name: "NewName", TailLength: fp(10), Weight: fp(-25)},
		"tail length": {Name: "NewName", TailLength: fp(-2), Weight: fp(25)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{dogs: twoDogs()}
			_, err := NewService(store).CreateDog(context.Background(), c)
			assert.ErrorIs(t, err, domain.ErrRejected)
			assert.Empty(t, store.appended)
		})
	}
}

func TestService_CreateDog_StoreNameTakenIsDuplicate(t *testing.T) {
	store := &fakeStore{appendErr: fmt.Errorf("insert: %w", domain.ErrNameTaken)}

	_, err := NewService(store).CreateDog(context.Background(), domain.Candidate{
		Name: "Rex", TailLength: fp(1), Weight: fp(1),
	})
	var rej *domain.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, domain.ReasonDuplicateName, rej.Reason)
	assert.Equal(t, "Rex", rej.Name)
}

func TestService_CreateDog_AppendFailure(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("disk full")}

	_, err := NewService(store).CreateDog(context.Background(), domain.Candidate{
		Name: "Rex", TailLength: fp(1), Weight: fp(1),
	})
	var sf *domain.StoreFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "append", sf.Op)
	assert.NotErrorIs(t, err, domain.ErrRejected)
}

func TestService_CreateDog_GetAllFailure(t *testing.T) {
	store := &fakeStore{getErr: errors.New("timeout")}

	_, err := NewService(store).CreateDog(context.Background(), domain.Candidate{
		Name: "Rex", TailLength: fp(1), Weight: fp(1),
	})
	var sf *domain.StoreFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "get all", sf.Op)
}

package account_test

import (
	"context"
	"studioboard/account"
	"studioboard/bizerror"
	"studioboard/docstore"
	"studioboard/domain"
	"studioboard/session"
	"studioboard/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserManager", func() {
	var (
		testDatabase *testinfra.TestDatabase
		manager      *account.UserManager
		changes      []docstore.Change
		admin        *domain.User
		adminSec     *session.Session
	)

	BeforeEach(func() {
		testDatabase = testinfra.StartTestDatabase("studioboard")
		Expect(testDatabase.DB().AutoMigrate(&domain.User{}).Error).To(BeNil())
		hub := docstore.NewHub()
		changes = nil
		hub.Subscribe(docstore.CollectionUsers, func(c *docstore.Change) error {
			changes = append(changes, *c)
			return nil
		})
		manager = account.NewUserManager(testDatabase.DS, hub)

		Expect(manager.EnsureAdmin(context.Background(), "admin", "admin123")).To(BeNil())
		var err error
		admin, err = manager.Authenticate(context.Background(), "admin", "admin123")
		Expect(err).To(BeNil())
		adminSec = testinfra.BuildSession(admin.ID, domain.RoleAdmin)
	})
	AfterEach(func() {
		testinfra.StopTestDatabase(testDatabase)
	})

	createUser := func(username string, role domain.Role) *domain.User {
		u, err := manager.CreateUser(&domain.UserCreation{Username: username, Password: "secret1", Role: role,
			FullName: username + " full"}, adminSec)
		Expect(err).To(BeNil())
		return u
	}

	Describe("EnsureAdmin", func() {
		It("should create the administrator only once", func() {
			Expect(admin.Role).To(Equal(domain.RoleAdmin))
			Expect(admin.Secret).ToNot(Equal("admin123"))

			Expect(manager.EnsureAdmin(context.Background(), "other", "other123")).To(BeNil())
			users, err := manager.LoadUsers(context.Background())
			Expect(err).To(BeNil())
			Expect(len(users)).To(Equal(1))
		})

		It("should refuse to bootstrap without a password", func() {
			Expect(testDatabase.DB().Delete(&domain.User{}).Error).To(BeNil())
			Expect(manager.EnsureAdmin(context.Background(), "admin", " ")).ToNot(BeNil())
		})
	})

	Describe("Authenticate", func() {
		It("should reject a wrong password or an unknown user", func() {
			_, err := manager.Authenticate(context.Background(), "admin", "wrong")
			Expect(err).To(Equal(bizerror.ErrInvalidCredentials))
			_, err = manager.Authenticate(context.Background(), "nobody", "admin123")
			Expect(err).To(Equal(bizerror.ErrInvalidCredentials))
		})
	})

	Describe("CreateUser", func() {
		It("should create users and announce them", func() {
			u := createUser("irina", domain.RoleArchitect)
			Expect(u.ID).ToNot(BeZero())
			Expect(changes[len(changes)-1]).To(Equal(docstore.Change{Kind: docstore.ChangeCreated, Collection: docstore.CollectionUsers, ID: u.ID}))

			detail, err := manager.Detail(context.Background(), u.ID)
			Expect(err).To(BeNil())
			Expect(detail.Username).To(Equal("irina"))
			Expect(detail.Role).To(Equal(domain.RoleArchitect))
		})

		It("should be admin only", func() {
			_, err := manager.CreateUser(&domain.UserCreation{Username: "x", Password: "secret1", Role: domain.RoleClient, FullName: "x"},
				testinfra.BuildSession(5, domain.RoleArchitect))
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})

		It("should keep usernames unique", func() {
			createUser("irina", domain.RoleArchitect)
			_, err := manager.CreateUser(&domain.UserCreation{Username: "irina", Password: "secret1", Role: domain.RoleDesigner, FullName: "x"}, adminSec)
			Expect(err).To(Equal(bizerror.ErrUsernameTaken))
		})
	})

	Describe("UpdateUser", func() {
		It("should let architects and designers edit their own profile", func() {
			u := createUser("oleg", domain.RoleDesigner)
			bio, details := "Дизайнер интерьеров", "Сбер 4276"
			updated, err := manager.UpdateUser(u.ID, &domain.UserPatch{Bio: &bio, PaymentDetails: &details},
				testinfra.BuildSession(u.ID, domain.RoleDesigner))
			Expect(err).To(BeNil())
			Expect(updated.Bio).To(Equal(bio))
			Expect(updated.FullName).To(Equal("oleg full"))
			Expect(changes[len(changes)-1].Kind).To(Equal(docstore.ChangeUpdated))
		})

		It("should forbid privileged or foreign edits", func() {
			u := createUser("oleg", domain.RoleDesigner)
			role := domain.RoleAdmin
			_, err := manager.UpdateUser(u.ID, &domain.UserPatch{Role: &role}, testinfra.BuildSession(u.ID, domain.RoleDesigner))
			Expect(err).To(Equal(bizerror.ErrForbidden))

			bio := "x"
			_, err = manager.UpdateUser(admin.ID, &domain.UserPatch{Bio: &bio}, testinfra.BuildSession(u.ID, domain.RoleDesigner))
			Expect(err).To(Equal(bizerror.ErrForbidden))

			client := createUser("client", domain.RoleClient)
			_, err = manager.UpdateUser(client.ID, &domain.UserPatch{Bio: &bio}, testinfra.BuildSession(client.ID, domain.RoleClient))
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})

		It("should let administrators reset passwords", func() {
			u := createUser("oleg", domain.RoleDesigner)
			password := "changed1"
			_, err := manager.UpdateUser(u.ID, &domain.UserPatch{Password: &password}, adminSec)
			Expect(err).To(BeNil())

			_, err = manager.Authenticate(context.Background(), "oleg", "secret1")
			Expect(err).To(Equal(bizerror.ErrInvalidCredentials))
			authenticated, err := manager.Authenticate(context.Background(), "oleg", "changed1")
			Expect(err).To(BeNil())
			Expect(authenticated.ID).To(Equal(u.ID))
		})

		It("should report a missing user", func() {
			bio := "x"
			_, err := manager.UpdateUser(types.ID(404), &domain.UserPatch{Bio: &bio}, adminSec)
			Expect(err).ToNot(BeNil())
		})
	})

	Describe("DeleteUser", func() {
		It("should delete without touching anything else", func() {
			u := createUser("irina", domain.RoleArchitect)
			Expect(manager.DeleteUser(u.ID, testinfra.BuildSession(u.ID, domain.RoleArchitect))).To(Equal(bizerror.ErrForbidden))
			Expect(manager.DeleteUser(u.ID, adminSec)).To(BeNil())
			Expect(changes[len(changes)-1]).To(Equal(docstore.Change{Kind: docstore.ChangeDeleted, Collection: docstore.CollectionUsers, ID: u.ID}))

			_, err := manager.Detail(context.Background(), u.ID)
			Expect(err).To(Equal(bizerror.ErrNotFound))
			Expect(manager.DeleteUser(u.ID, adminSec)).To(Equal(bizerror.ErrNotFound))
		})
	})
})

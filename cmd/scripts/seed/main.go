package main

import (
	"context"

	"github.com/jessevdk/go-flags"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/bookinstances"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/languages"
	"github.com/locallibrary/catalog/pkg/lending"
	"github.com/locallibrary/catalog/pkg/migrations"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/robinjoseph08/golib/logger"
)

type seedBook struct {
	title   string
	summary string
	isbn    string
	author  int
	genres  []int
}

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Password  string `short:"p" long:"password" default:"password" description:"Password for the seeded accounts"`
		Copies    int    `short:"c" long:"copies" default:"2" description:"Copies to create per book"`
		LoanEvery int    `long:"loan-every" default:"3" description:"Put every Nth copy on loan to the reader (0 disables loans)"`
	}
	if _, err := flags.Parse(&opts); err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	userService := users.NewService(db)
	if _, err := userService.Create(ctx, users.CreateUserOptions{Username: "librarian", Password: opts.Password, Librarian: true}); err != nil {
		log.Err(err).Fatal("create librarian error")
	}
	reader, err := userService.Create(ctx, users.CreateUserOptions{Username: "reader", Password: opts.Password})
	if err != nil {
		log.Err(err).Fatal("create reader error")
	}

	authorService := authors.NewService(db)
	authorIDs := []int{}
	for _, a := range []*models.Author{
		{FirstName: "J.R.R.", LastName: "Tolkien", DateOfBirth: datePtr(models.NewDate(1892, 1, 3)), DateOfDeath: datePtr(models.NewDate(1973, 9, 2))},
		{FirstName: "Ursula K.", LastName: "Le Guin", DateOfBirth: datePtr(models.NewDate(1929, 10, 21)), DateOfDeath: datePtr(models.NewDate(2018, 1, 22))},
		{FirstName: "Terry", LastName: "Pratchett", DateOfBirth: datePtr(models.NewDate(1948, 4, 28)), DateOfDeath: datePtr(models.NewDate(2015, 3, 12))},
	} {
		if err := authorService.CreateAuthor(ctx, a); err != nil {
			log.Err(err).Fatal("create author error")
		}
		authorIDs = append(authorIDs, a.ID)
	}

	genreService := genres.NewService(db)
	genreIDs := []int{}
	for _, name := range []string{"Fantasy", "Science Fiction", "Satire"} {
		g := &models.Genre{Name: name}
		if err := genreService.CreateGenre(ctx, g); err != nil {
			log.Err(err).Fatal("create genre error")
		}
		genreIDs = append(genreIDs, g.ID)
	}

	english := &models.Language{Name: "English"}
	if err := languages.NewService(db).CreateLanguage(ctx, english); err != nil {
		log.Err(err).Fatal("create language error")
	}

	bookService := books.NewService(db)
	instanceService := bookinstances.NewService(db)
	lendingService := lending.NewService(db)
	today := lendingService.Today()

	seeds := []seedBook{
		{"The Fellowship of the Ring: The Lord of the Rings, Part 1", "The first volume of the quest.", "9780547928210", authorIDs[0], []int{genreIDs[0]}},
		{"The Hobbit", "There and back again.", "9780547928227", authorIDs[0], []int{genreIDs[0]}},
		{"A Wizard of Earthsea", "A young mage and his shadow.", "9780547773742", authorIDs[1], []int{genreIDs[0]}},
		{"The Left Hand of Darkness", "An envoy on the planet Winter.", "9780441478125", authorIDs[1], []int{genreIDs[1]}},
		{"Guards! Guards!", "A dragon comes to Ankh-Morpork.", "9780062225757", authorIDs[2], []int{genreIDs[0], genreIDs[2]}},
	}

	n := 0
	for _, s := range seeds {
		book := &models.Book{Title: s.title, Summary: s.summary, ISBN: s.isbn, AuthorID: &s.author, LanguageID: &english.ID}
		if err := bookService.CreateBook(ctx, book, books.SaveBookOptions{GenreIDs: s.genres}); err != nil {
			log.Err(err).Fatal("create book error")
		}

		for i := 0; i < opts.Copies; i++ {
			inst := &models.BookInstance{BookID: book.ID, Imprint: "Seed Press, 2024"}
			if err := instanceService.CreateBookInstance(ctx, inst); err != nil {
				log.Err(err).Fatal("create book instance error")
			}
			n++
			if opts.LoanEvery <= 0 || n%opts.LoanEvery != 0 {
				continue
			}
			_, err := lendingService.Checkout(ctx, lending.CheckoutOptions{
				InstanceID:       inst.ID,
				BorrowerUsername: reader.Username,
				DueBack:          today.AddDays(n % lending.RenewalWindowDays),
			})
			if err != nil {
				log.Err(err).Fatal("checkout error")
			}
		}
	}

	log.Info("seeded catalog", logger.Data{"books": len(seeds), "copies": n, "authors": len(authorIDs)})
}

func datePtr(d models.Date) *models.Date {
	return &d
}

package catalog

// Operation names, used for cache keys, logs and metrics.
const (
	opBooks         = "books"
	opBookByID      = "bookById"
	opBooksByAuthor = "booksByAuthor"
	opSearchBooks   = "searchBooks"
	opBooksCount    = "booksCount"
	opStats         = "stats"
	opAddBook       = "addBook"
	opUpdateBook    = "updateBook"
	opDeleteBook    = "deleteBook"
)

const bookFields = `
		id
		title
		author
		publisher
		createdAt
		updatedAt`

const (
	queryBooks = `query Books {
	books {` + bookFields + `
	}
}`

	queryBookByID = `query GetBook($id: ID!) {
	bookById(id: $id) {` + bookFields + `
	}
}`

	queryBooksByAuthor = `query BooksByAuthor($author: String!) {
	booksByAuthor(author: $author) {` + bookFields + `
	}
}`

	querySearchBooks = `query SearchBooks($title: String!) {
	searchBooks(title: $title) {` + bookFields + `
	}
}`

	queryBooksCount = `query BooksCount {
	booksCount
}`

	queryStats = `query Stats {
	booksCount
	books {
		author
		publisher
	}
}`

	mutationAddBook = `mutation AddBook($input: BookInput!) {
	addBook(input: $input) {` + bookFields + `
	}
}`

	mutationUpdateBook = `mutation UpdateBook($id: ID!, $input: BookInput!) {
	updateBook(id: $id, input: $input) {` + bookFields + `
	}
}`

	mutationDeleteBook = `mutation DeleteBook($id: ID!) {
	deleteBook(id: $id)
}`
)

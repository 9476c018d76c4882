package main

var (
	Tagline = `Backend engineer building scalable systems and thoughtful products.`

	AboutMe = `I design and build backend systems that stay fast and readable as they grow.
	Most of my work lives around APIs, payments and data pipelines, where careful structure
	matters more than clever code. I enjoy turning messy requirements into small, dependable
	services and explaining the trade-offs along the way.
	Away from the keyboard I read about architecture, mentor junior developers and write
	about what I learn on the blog.`

	PrivacyNotice = `Page views are recorded with a salted hash of your IP address, never the
	address itself. Requests that send Do Not Track are not recorded at all, and every record
	is deleted after the retention period.`
)

package graph

// Schema is the GraphQL contract served at /graphql.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
		subscription: Subscription
	}

	type Query {
		info: String!
		feed(filter: String, skip: Int, first: Int, orderBy: LinkOrderByInput): Feed!
	}

	type Mutation {
		post(url: String!, description: String!): Link!
		signup(email: String!, password: String!, name: String!): AuthPayload
		login(email: String!, password: String!): AuthPayload
		vote(linkId: ID!): Vote
	}

	type Subscription {
		newLink: Link!
		newVote: Vote!
	}

	type Feed {
		links: [Link!]!
		count: Int!
	}

	type Link {
		id: ID!
		createdAt: Time!
		description: String!
		url: String!
		postedBy: User
		votes: [Vote!]!
	}

	type User {
		id: ID!
		name: String!
		email: String!
		links: [Link!]!
	}

	type Vote {
		id: ID!
		link: Link!
		user: User!
	}

	type AuthPayload {
		token: String
		user: User
	}

	enum LinkOrderByInput {
		description_ASC
		description_DESC
		url_ASC
		url_DESC
		createdAt_ASC
		createdAt_DESC
	}

	scalar Time
`

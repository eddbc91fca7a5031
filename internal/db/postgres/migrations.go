package postgres

// SQL-миграции встроены в код для упрощения деплоя.
// Порядок важен: версии применяются по возрастанию и никогда не меняются задним числом.
var migrations = []struct {
	version int
	name    string
	sql     string
}{
	{1, "members", migration001Members},
	{2, "vote_configs", migration002VoteConfigs},
	{3, "karma", migration003Karma},
}

// Кэш отображаемых имён: Telegram не даёт искать пользователя по @username.
var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    user_id BIGINT PRIMARY KEY,
    username VARCHAR(255) NOT NULL DEFAULT '',
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    last_name VARCHAR(255) NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(LOWER(username));
`

// NULL в колонке эмодзи = администратор ещё не настроил этот тип голоса.
var migration002VoteConfigs = `
CREATE TABLE IF NOT EXISTS vote_configs (
    chat_id BIGINT PRIMARY KEY,
    upvote_emoji TEXT,
    downvote_emoji TEXT,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
`

var migration003Karma = `
CREATE TABLE IF NOT EXISTS karma (
    chat_id BIGINT NOT NULL,
    user_id BIGINT NOT NULL,
    karma INTEGER NOT NULL DEFAULT 0,
    ignored BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (chat_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_karma_leaderboard ON karma(chat_id, karma DESC);
`

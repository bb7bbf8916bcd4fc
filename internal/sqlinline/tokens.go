package sqlinline

const QInsertAuthToken = `--sql 81f1e1f1-d1ea-4657-a745-450865e6f96d
insert into auth_tokens (id, user_id, kind, token, expires_at, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::timestamptz, now());
`

const QConsumeAuthToken = `--sql d4ea1306-1e8b-4ed1-ab39-252449fbed1e
update auth_tokens
set consumed_at = now()
where token = $1::text
  and kind = $2::text
  and consumed_at is null
  and expires_at > now()
returning user_id;
`

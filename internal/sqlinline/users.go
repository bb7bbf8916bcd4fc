package sqlinline

const QInsertUser = `--sql 3b1c1fd7-ba50-44cd-9f66-df5d28c7f1ba
insert into users (id, email, password_hash, plan, email_verified, properties, created_at, updated_at)
values (gen_random_uuid(), lower($1::text), $2::text, 'free', false, '{}'::jsonb, now(), now())
returning id, plan, created_at;
`

const QSelectUserByEmail = `--sql 0f20d220-f971-4400-8bb3-cef0172d2ad6
select id, email, password_hash, email_verified, plan, properties
from users
where email = lower($1::text)
limit 1;
`

const QSelectUserByID = `--sql 0be0e0c7-b5b8-459e-8b79-87b0dab0c63d
select id, email, email_verified, plan, properties, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QMarkEmailVerified = `--sql 7a6e6ebd-5f41-4596-b420-4656092bbb5f
update users
set email_verified = true,
    updated_at = now()
where id = $1::uuid;
`

const QSetPasswordHash = `--sql 71afe6e7-7c7d-47db-9fc9-e58a15a9b53b
update users
set password_hash = $2::text,
    updated_at = now()
where id = $1::uuid;
`

const QSetOnboardingComplete = `--sql d88882c7-979d-408b-b8d6-c904cf711abd
update users
set properties = jsonb_set(properties, '{onboarding_complete}', to_jsonb($2::boolean), true),
    updated_at = now()
where id = $1::uuid;
`

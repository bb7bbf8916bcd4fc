package sqlinline

const QUpsertWaitlistEntry = `--sql d67d0a9a-4db7-451c-9c4d-75d322045ae0
insert into mobile_waitlist (id, user_id, name, email, feedback, interested_features, country_code, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, coalesce($5::jsonb, '[]'::jsonb), $6::text, now(), now())
on conflict (user_id) do update set
    name = excluded.name,
    feedback = excluded.feedback,
    interested_features = excluded.interested_features,
    country_code = coalesce(nullif(excluded.country_code, ''), mobile_waitlist.country_code),
    updated_at = now()
returning id;
`

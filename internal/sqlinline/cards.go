package sqlinline

// QInsertCardWithStats persists one card and bumps the owner's counters in a
// single statement. cards_created is a lifetime count and only ever grows;
// cards_saved mirrors the live rows (the outer count sees the pre-insert
// snapshot, hence the +1).
const QInsertCardWithStats = `--sql 52659393-ca5d-4744-9e9f-15967e4ee6d9
with created as (
    insert into wisdom_cards (id, user_id, state, problem, lens, wisdom, created_at)
    values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text, now())
    returning id, created_at
),
stats as (
    insert into user_stats (user_id, cards_created, cards_saved, updated_at)
    values ($1::uuid, 1, (select count(*) + 1 from wisdom_cards where user_id = $1::uuid), now())
    on conflict (user_id) do update set
        cards_created = user_stats.cards_created + 1,
        cards_saved = excluded.cards_saved,
        updated_at = now()
    returning cards_created, cards_saved
)
select c.id, c.created_at, s.cards_created, s.cards_saved
from created c, stats s;
`

const QListCardsNewest = `--sql 30f031d6-3fe0-4f8c-9956-77294a630575
select id, state, problem, lens, wisdom, created_at
from wisdom_cards
where user_id = $1::uuid
order by created_at desc;
`

const QListCardsOldest = `--sql 8e8b826c-a512-4883-8d8d-4cc17b5f4441
select id, state, problem, lens, wisdom, created_at
from wisdom_cards
where user_id = $1::uuid
order by created_at asc;
`

// QDeleteCardWithStats removes one owned card and refreshes cards_saved.
// cards_created is deliberately untouched: deletion never refunds the
// free-tier allowance. Returns no row when the card does not exist or is not
// owned by the caller.
const QDeleteCardWithStats = `--sql 60bcb87e-0fb8-404d-97cc-71c4186d5717
with removed as (
    delete from wisdom_cards
    where id = $1::uuid and user_id = $2::uuid
    returning id
),
stats as (
    update user_stats
    set cards_saved = (select count(*) from wisdom_cards where user_id = $2::uuid)
                      - (select count(*) from removed),
        updated_at = now()
    where user_id = $2::uuid
)
select id from removed;
`

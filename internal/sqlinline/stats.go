package sqlinline

const QSelectUserStats = `--sql 5d0ffc6a-2276-4f4a-9722-1d08c6f89f4e
select cards_created, cards_saved, updated_at
from user_stats
where user_id = $1::uuid
limit 1;
`
